// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and sample conversion functions
// Package audio provides the fundamental audio types shared by the engine,
// the device backends and the decoders.
//
// Format is the stream configuration negotiated when a device is opened. It
// converts between seconds and frames:
//
//	format := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 16}
//	frame := format.Frames(1.5)   // 66150
//	secs := format.Seconds(22050) // 0.5
//
// Samples are interleaved signed 16-bit values. Helpers convert 24-bit and
// wider integer samples down to 16-bit and pack/unpack little-endian bytes.
package audio
