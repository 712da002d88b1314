// ABOUTME: Oto-based audio output implementation
// ABOUTME: Exposes the render callback as an io.Reader pulled by an oto player
package output

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// otoBufferSize keeps oto's internal queue short so seeks and jumps are heard promptly
const otoBufferSize = 20 * time.Millisecond

// Oto output implementation using oto library. oto allows a single context
// per process, so only one Oto output can be open at a time.
type Oto struct {
	otoCtx *oto.Context
	player *oto.Player
	format audio.Format
	render RenderFunc

	// Only touched by the oto reader goroutine after Open
	scratch []int16

	mu sync.Mutex
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{}
}

// Open creates the oto context and a paused player reading from the render callback
func (o *Oto) Open(format audio.Format, render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		return fmt.Errorf("output already open")
	}
	if err := format.Validate(); err != nil {
		return err
	}
	if render == nil {
		return fmt.Errorf("render callback is required")
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   otoBufferSize,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.format = format
	o.render = render
	o.scratch = make([]int16, format.SampleRate*scratchMs/1000*format.Channels)
	o.player = ctx.NewPlayer(o)

	log.Printf("Audio output initialized: %s (oto)", format)
	return nil
}

// Read renders whole frames into p. oto calls it from its mixing goroutine.
func (o *Oto) Read(p []byte) (int, error) {
	frameBytes := o.format.BytesPerFrame()
	n := len(p) / frameBytes * o.format.Channels
	if n == 0 {
		return 0, nil
	}
	if len(o.scratch) < n {
		o.scratch = make([]int16, n)
	}
	samples := o.scratch[:n]
	o.render(samples)
	audio.PutInt16(p, samples)
	return n * 2, nil
}

// Start starts or resumes the player
func (o *Oto) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return fmt.Errorf("output not initialized")
	}
	if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}
	o.player.Play()
	return nil
}

// Pause pauses the player; buffered audio is kept
func (o *Oto) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return fmt.Errorf("output not initialized")
	}
	o.player.Pause()
	return nil
}

// Stop pauses the player and suspends the context
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return fmt.Errorf("output not initialized")
	}
	o.player.Pause()
	if err := o.otoCtx.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Printf("Warning: oto player close error: %v", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto context suspend error: %v", err)
		}
	}
	return nil
}
