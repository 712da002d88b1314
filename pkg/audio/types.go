// ABOUTME: Audio type definitions
// ABOUTME: Defines the stream format, frame/time conversion and sample packing
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// maxFrame bounds Frames so cursor arithmetic cannot overflow int64
	maxFrame = math.MaxInt64 / 2
)

// Format describes an audio stream format. It is fixed for the lifetime of
// an open stream and is the only source of truth for seconds<->frames math.
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Validate checks that the format can drive a stream
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	return nil
}

// Frames converts seconds to a frame index: round(seconds*rate), never negative
func (f Format) Frames(seconds float64) int64 {
	if f.SampleRate <= 0 || math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	frames := math.Round(seconds * float64(f.SampleRate))
	if frames >= maxFrame {
		return maxFrame
	}
	return int64(frames)
}

// Seconds converts a frame index to seconds
func (f Format) Seconds(frames int64) float64 {
	if f.SampleRate <= 0 {
		return 0
	}
	return float64(frames) / float64(f.SampleRate)
}

// BytesPerFrame returns the size of one interleaved 16-bit frame
func (f Format) BytesPerFrame() int {
	return f.Channels * 2
}

// String renders the format for logs
func (f Format) String() string {
	return fmt.Sprintf("%dHz %dch %d-bit", f.SampleRate, f.Channels, f.BitDepth)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit to 16-bit range
	return int16(sample >> 8)
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// ScaleToInt16 converts a signed integer sample of the given bit depth to int16
func ScaleToInt16(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(sample)
	case bitDepth > 16:
		return int16(sample >> (bitDepth - 16))
	case bitDepth > 0:
		return int16(sample << (16 - bitDepth))
	default:
		return 0
	}
}

// BytesToInt16 decodes little-endian 16-bit samples. A trailing odd byte is ignored.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// PutInt16 packs samples little-endian into dst, which must hold 2*len(samples) bytes
func PutInt16(dst []byte, samples []int16) {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(s))
	}
}
