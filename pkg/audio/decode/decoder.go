// ABOUTME: Decoder interface definition
// ABOUTME: Common interface and file helpers for all audio decoders
package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// PCM is a fully decoded clip of interleaved 16-bit samples
type PCM struct {
	Format  audio.Format
	Samples []int16
}

// Frames returns the number of whole frames in the clip
func (p *PCM) Frames() int {
	if p == nil || p.Format.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Format.Channels
}

// Duration returns the clip length in seconds
func (p *PCM) Duration() float64 {
	if p == nil {
		return 0
	}
	return p.Format.Seconds(int64(p.Frames()))
}

// Decoder decodes a complete encoded stream to 16-bit PCM
type Decoder interface {
	Decode(r io.Reader) (*PCM, error)
}

// ForFile picks a decoder from the file extension. Raw .pcm/.raw files use
// the fallback format.
func ForFile(path string, fallback audio.Format) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
		return WAV{}, nil
	case ".mp3":
		return MP3{}, nil
	case ".flac":
		return FLAC{}, nil
	case ".pcm", ".raw":
		return NewPCM(fallback)
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}

// DecodeFile opens and fully decodes the file at path
func DecodeFile(path string, fallback audio.Format) (*PCM, error) {
	dec, err := ForFile(path, fallback)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	pcm, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if pcm.Frames() == 0 {
		return nil, fmt.Errorf("no audio in %s", filepath.Base(path))
	}
	return pcm, nil
}
