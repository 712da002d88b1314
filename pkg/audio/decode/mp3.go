// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to 16-bit stereo PCM via go-mp3
package decode

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// MP3 decodes MPEG-1/2 Layer III files. go-mp3 always produces stereo.
type MP3 struct{}

// Decode reads the whole file
func (MP3) Decode(r io.Reader) (*PCM, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	var data []byte
	if n := decoder.Length(); n > 0 {
		data = make([]byte, 0, n)
	}
	buf := make([]byte, 8192)
	for {
		n, err := decoder.Read(buf)
		data = append(data, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mp3 decode error: %w", err)
		}
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		BitDepth:   16,
	}
	frameBytes := format.BytesPerFrame()
	data = data[:len(data)/frameBytes*frameBytes]

	return &PCM{Format: format, Samples: audio.BytesToInt16(data)}, nil
}
