// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and malgo, oto, PortAudio and headless backends
// Package output provides the device stream layer.
//
// Every backend pulls audio through a RenderFunc from its own real-time
// callback, so the caller decides what is played at callback granularity.
//
// Example:
//
//	out := output.NewMalgo()
//	err := out.Open(audio.Format{SampleRate: 44100, Channels: 2}, eng.Render)
//	err = out.Start()
package output
