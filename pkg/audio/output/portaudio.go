//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using PortAudio callbacks
package output

import (
	"fmt"
	"log"

	"github.com/foreverjukebox/fjplay/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	stream *portaudio.Stream
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

// Open initializes PortAudio with an interleaved int16 callback stream
func (p *PortAudio) Open(format audio.Format, render RenderFunc) error {
	if p.stream != nil {
		return fmt.Errorf("output already open")
	}
	if err := format.Validate(); err != nil {
		return err
	}
	if render == nil {
		return fmt.Errorf("render callback is required")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), 0, func(out []int16) {
		render(out)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	log.Printf("Audio output initialized: %s (portaudio)", format)
	return nil
}

// Start starts the stream
func (p *PortAudio) Start() error {
	if p.stream == nil {
		return fmt.Errorf("output not opened")
	}
	return p.stream.Start()
}

// Pause stops the stream callback
func (p *PortAudio) Pause() error {
	return p.Stop()
}

// Stop stops the stream
func (p *PortAudio) Stop() error {
	if p.stream == nil {
		return fmt.Errorf("output not opened")
	}
	return p.stream.Stop()
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream != nil {
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}
	return portaudio.Terminate()
}
