// ABOUTME: Tests for raw PCM decoder
// ABOUTME: Tests 16-bit and 24-bit PCM decoding and format validation
package decode

import (
	"bytes"
	"testing"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name    string
		format  audio.Format
		wantErr bool
	}{
		{"16-bit stereo", audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16}, false},
		{"24-bit without codec", audio.Format{SampleRate: 96000, Channels: 2, BitDepth: 24}, false},
		{"wrong codec", audio.Format{Codec: "opus", SampleRate: 48000, Channels: 2, BitDepth: 16}, true},
		{"8-bit", audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 8}, true},
		{"no channels", audio.Format{Codec: "pcm", SampleRate: 48000, BitDepth: 16}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder, err := NewPCM(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to create decoder: %v", err)
			}
			if decoder == nil {
				t.Fatal("expected decoder to be created")
			}
		})
	}
}

func TestPCMDecode16Bit(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 16})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// 0x0100 = 256, 0x0302 = 770, trailing half frame dropped
	input := []byte{0x00, 0x01, 0x02, 0x03, 0xff}
	pcm, err := decoder.Decode(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if pcm.Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", pcm.Frames())
	}
	if pcm.Samples[0] != 256 || pcm.Samples[1] != 770 {
		t.Errorf("expected [256 770], got %v", pcm.Samples)
	}
	if pcm.Format.SampleRate != 48000 || pcm.Format.BitDepth != 16 {
		t.Errorf("unexpected format %s", pcm.Format)
	}
}

func TestPCMDecode24Bit(t *testing.T) {
	decoder, err := NewPCM(audio.Format{Codec: "pcm", SampleRate: 96000, Channels: 1, BitDepth: 24})
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// 0x123456 -> 0x1234, 0xFFFF00 (-256) -> -1
	input := []byte{0x56, 0x34, 0x12, 0x00, 0xff, 0xff}
	pcm, err := decoder.Decode(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(pcm.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(pcm.Samples))
	}
	if pcm.Samples[0] != 0x1234 {
		t.Errorf("expected first sample %d, got %d", 0x1234, pcm.Samples[0])
	}
	if pcm.Samples[1] != -1 {
		t.Errorf("expected second sample -1, got %d", pcm.Samples[1])
	}
	if pcm.Format.BitDepth != 16 {
		t.Errorf("expected output bit depth 16, got %d", pcm.Format.BitDepth)
	}
}
