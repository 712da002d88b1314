// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files to 16-bit PCM via mewkiz/flac
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// FLAC decodes native FLAC streams of any bit depth
type FLAC struct{}

// Decode reads the whole stream
func (FLAC) Decode(r io.Reader) (*PCM, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: int(info.SampleRate),
		Channels:   channels,
		BitDepth:   16,
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	var samples []int16
	if info.NSamples > 0 {
		samples = make([]int16, 0, int(info.NSamples)*channels)
	}

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		if len(frame.Subframes) != channels {
			return nil, fmt.Errorf("FLAC frame has %d channels, stream has %d", len(frame.Subframes), channels)
		}
		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, audio.ScaleToInt16(frame.Subframes[ch].Samples[i], bitDepth))
			}
		}
	}

	return &PCM{Format: format, Samples: samples}, nil
}
