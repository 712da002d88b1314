// ABOUTME: Raw PCM audio decoder
// ABOUTME: Decodes headerless 16-bit and 24-bit little-endian PCM
package decode

import (
	"fmt"
	"io"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// PCMDecoder decodes headerless PCM in a declared format
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new raw PCM decoder
func NewPCM(format audio.Format) (*PCMDecoder, error) {
	if format.Codec != "" && format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}
	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	format.Codec = "pcm"
	return &PCMDecoder{format: format}, nil
}

// Decode reads the whole stream. A trailing partial frame is dropped.
func (d *PCMDecoder) Decode(r io.Reader) (*PCM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm: %w", err)
	}

	bytesPerSample := d.format.BitDepth / 8
	frameBytes := bytesPerSample * d.format.Channels
	data = data[:len(data)/frameBytes*frameBytes]

	var samples []int16
	if d.format.BitDepth == 24 {
		samples = make([]int16, len(data)/3)
		for i := range samples {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleToInt16(audio.SampleFrom24Bit(b))
		}
	} else {
		samples = audio.BytesToInt16(data)
	}

	format := d.format
	format.BitDepth = 16
	return &PCM{Format: format, Samples: samples}, nil
}
