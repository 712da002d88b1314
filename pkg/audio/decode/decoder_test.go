// ABOUTME: Tests for file decoding helpers and the WAV decoder
// ABOUTME: Writes real WAV files with go-audio/wav and decodes them back
package decode

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// writeWAV encodes data as a WAV file in dir and returns its path
func writeWAV(t *testing.T, dir string, rate, bitDepth, channels int, data []int) string {
	t.Helper()
	return writeWAVFormat(t, dir, rate, bitDepth, channels, 1, data)
}

func writeWAVFormat(t *testing.T, dir string, rate, bitDepth, channels, audioFormat int, data []int) string {
	t.Helper()

	path := filepath.Join(dir, "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bitDepth, channels, audioFormat)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finish wav: %v", err)
	}
	return path
}

func TestForFile(t *testing.T) {
	raw := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"song.wav", false},
		{"SONG.WAV", false},
		{"song.mp3", false},
		{"song.flac", false},
		{"song.pcm", false},
		{"song.raw", false},
		{"song.ogg", true},
		{"song", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			dec, err := ForFile(tt.path, raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dec == nil {
				t.Fatal("expected decoder")
			}
		})
	}

	if _, err := ForFile("song.raw", audio.Format{}); err == nil {
		t.Error("expected raw file without a fallback format to fail")
	}
}

func TestDecodeWAV16(t *testing.T) {
	data := []int{0, 0, 1000, -1000, 32767, -32768}
	path := writeWAV(t, t.TempDir(), 22050, 16, 2, data)

	pcm, err := DecodeFile(path, audio.Format{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if pcm.Format.SampleRate != 22050 || pcm.Format.Channels != 2 {
		t.Errorf("unexpected format %s", pcm.Format)
	}
	if pcm.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", pcm.Frames())
	}
	for i, want := range data {
		if int(pcm.Samples[i]) != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, pcm.Samples[i])
		}
	}
}

func TestDecodeWAV24(t *testing.T) {
	data := []int{0x123400, -0x010000, 0x7fffff}
	path := writeWAV(t, t.TempDir(), 48000, 24, 1, data)

	pcm, err := DecodeFile(path, audio.Format{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	expected := []int16{0x1234, -0x0100, 0x7fff}
	if len(pcm.Samples) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(pcm.Samples))
	}
	for i := range expected {
		if pcm.Samples[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], pcm.Samples[i])
		}
	}
}

func TestDecodeWAVFromPlainReader(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 8000, 16, 1, []int{5, 6, 7})
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read wav: %v", err)
	}

	// bytes.Buffer cannot seek, so the decoder buffers it
	pcm, err := WAV{}.Decode(bytes.NewBuffer(raw))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if pcm.Frames() != 3 || pcm.Samples[2] != 7 {
		t.Errorf("expected [5 6 7], got %v", pcm.Samples)
	}
	if pcm.Duration() != 3.0/8000 {
		t.Errorf("expected duration %f, got %f", 3.0/8000, pcm.Duration())
	}
}

func TestDecodeWAVRejectsFloat(t *testing.T) {
	// 0x3F800000 is 1.0 as an IEEE float
	path := writeWAVFormat(t, t.TempDir(), 8000, 32, 1, 3, []int{0x3F800000, 0})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open wav: %v", err)
	}
	defer f.Close()

	pcm, err := WAV{}.Decode(f)
	if err == nil {
		t.Fatalf("Expected float WAV to be rejected, got %d frames", pcm.Frames())
	}
	if !strings.Contains(err.Error(), "audio format: 3") {
		t.Errorf("Expected audio format in error, got %v", err)
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := DecodeFile(filepath.Join(dir, "missing.wav"), audio.Format{}); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.wav")
	if err := os.WriteFile(garbage, []byte("not a wav file at all"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := DecodeFile(garbage, audio.Format{}); err == nil {
		t.Error("expected error for invalid wav")
	}

	empty := filepath.Join(dir, "empty.pcm")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := DecodeFile(empty, audio.Format{SampleRate: 8000, Channels: 1, BitDepth: 16}); err == nil {
		t.Error("expected error for empty clip")
	}

	if _, err := DecodeFile(filepath.Join(dir, "bad.mp3"), audio.Format{}); err == nil {
		t.Error("expected error for missing mp3")
	}
}

func TestDecodeInvalidStreams(t *testing.T) {
	junk := []byte("definitely not audio")

	if _, err := (MP3{}).Decode(bytes.NewReader(junk)); err == nil {
		t.Error("expected mp3 decoder to reject junk")
	}
	if _, err := (FLAC{}).Decode(bytes.NewReader(junk)); err == nil {
		t.Error("expected flac decoder to reject junk")
	}
}

func TestPCMFramesNil(t *testing.T) {
	var pcm *PCM
	if pcm.Frames() != 0 || pcm.Duration() != 0 {
		t.Error("expected nil clip to be empty")
	}
}
