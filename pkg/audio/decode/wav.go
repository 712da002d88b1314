// ABOUTME: WAV audio decoder
// ABOUTME: Decodes integer WAV files to 16-bit PCM via go-audio/wav
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// WAV decodes RIFF/WAVE files with 8, 16, 24 or 32-bit integer samples
type WAV struct{}

// Decode reads the whole file. Readers that cannot seek are buffered first.
func (WAV) Decode(r io.Reader) (*PCM, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read wav: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	decoder := wav.NewDecoder(rs)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file format")
	}

	switch decoder.WavAudioFormat {
	case wavFormatPCM, wavFormatExtensible:
	default:
		return nil, fmt.Errorf("unsupported WAV audio format: %d (only integer PCM)", decoder.WavAudioFormat)
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav samples: %w", err)
	}

	channels := int(decoder.NumChans)
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
		BitDepth:   16,
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	frames := len(buf.Data) / channels
	samples := make([]int16, frames*channels)
	for i := range samples {
		v := buf.Data[i]
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = audio.ScaleToInt16(int32(v), bitDepth)
	}

	return &PCM{Format: format, Samples: samples}, nil
}
