//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

// Open reports that PortAudio is unavailable
func (p *PortAudio) Open(format audio.Format, render RenderFunc) error {
	return errPortAudioDisabled
}

// Start reports that PortAudio is unavailable
func (p *PortAudio) Start() error { return errPortAudioDisabled }

// Pause reports that PortAudio is unavailable
func (p *PortAudio) Pause() error { return errPortAudioDisabled }

// Stop reports that PortAudio is unavailable
func (p *PortAudio) Stop() error { return errPortAudioDisabled }

// Close is a no-op
func (p *PortAudio) Close() error { return nil }
