// ABOUTME: Audio output interface definition
// ABOUTME: Common pull-model interface for audio playback backends
package output

import (
	"fmt"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// RenderFunc fills out with len(out)/channels interleaved frames. It is
// called from the device's real-time callback and must not block.
type RenderFunc func(out []int16)

// Output represents an audio output device that pulls audio through a
// RenderFunc at its own period.
type Output interface {
	// Open negotiates the stream format and installs the render callback
	Open(format audio.Format, render RenderFunc) error

	// Start requests the stream to start (or resume) calling render
	Start() error

	// Pause requests the stream to stop calling render without releasing it
	Pause() error

	// Stop requests the stream to stop
	Stop() error

	// Close releases output resources
	Close() error
}

// Backend names accepted by New
const (
	BackendMalgo     = "malgo"
	BackendOto       = "oto"
	BackendPortAudio = "portaudio"
	BackendHeadless  = "headless"
)

// New creates an output for the named backend
func New(backend string) (Output, error) {
	switch backend {
	case BackendMalgo, "":
		return NewMalgo(), nil
	case BackendOto:
		return NewOto(), nil
	case BackendPortAudio:
		return NewPortAudio(), nil
	case BackendHeadless:
		return NewHeadless(0), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", backend)
	}
}
