// ABOUTME: Headless audio output implementation
// ABOUTME: Drives the render callback from a ticker or on demand, without a device
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// Headless is an output with no device behind it. With a non-zero period it
// pulls one period of frames per tick while started, like a device would;
// with a zero period frames are only rendered through Pull.
type Headless struct {
	// OpenError, when set, makes Open fail with it
	OpenError error

	period time.Duration

	mu      sync.Mutex
	format  audio.Format
	render  RenderFunc
	opened  bool
	started bool
	buf     []int16
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewHeadless creates a headless output that ticks every period (0 = manual)
func NewHeadless(period time.Duration) *Headless {
	return &Headless{period: period}
}

// Open installs the render callback
func (h *Headless) Open(format audio.Format, render RenderFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.OpenError != nil {
		return h.OpenError
	}
	if h.opened {
		return fmt.Errorf("output already open")
	}
	if err := format.Validate(); err != nil {
		return err
	}
	if render == nil {
		return fmt.Errorf("render callback is required")
	}

	h.format = format
	h.render = render
	h.opened = true
	if h.period > 0 {
		h.buf = make([]int16, h.periodFrames()*format.Channels)
	}
	return nil
}

// periodFrames returns the frames rendered per tick
func (h *Headless) periodFrames() int {
	return max(int(int64(h.format.SampleRate)*int64(h.period)/int64(time.Second)), 1)
}

// Start begins calling render
func (h *Headless) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.opened {
		return fmt.Errorf("output not initialized")
	}
	if h.started {
		return nil
	}
	h.started = true

	if h.period > 0 {
		h.done = make(chan struct{})
		h.wg.Add(1)
		go h.tick(h.done)
	}
	return nil
}

// tick renders one period per tick until done is closed
func (h *Headless) tick(done chan struct{}) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.render(h.buf)
		}
	}
}

// Pause stops calling render
func (h *Headless) Pause() error {
	return h.Stop()
}

// Stop stops calling render and waits for an in-flight tick to finish
func (h *Headless) Stop() error {
	h.mu.Lock()
	if !h.opened {
		h.mu.Unlock()
		return fmt.Errorf("output not initialized")
	}
	if !h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = false
	if h.done != nil {
		close(h.done)
		h.done = nil
	}
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// Close stops the output
func (h *Headless) Close() error {
	h.mu.Lock()
	opened := h.opened
	h.mu.Unlock()

	if opened {
		if err := h.Stop(); err != nil {
			return err
		}
	}

	h.mu.Lock()
	h.opened = false
	h.mu.Unlock()
	return nil
}

// Pull renders frames through the callback as one device period would. It
// returns nil when the output is not started.
func (h *Headless) Pull(frames int) []int16 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started || frames <= 0 {
		return nil
	}
	out := make([]int16, frames*h.format.Channels)
	h.render(out)
	return out
}

// Started reports whether the output is calling render
func (h *Headless) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}
