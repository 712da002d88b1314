// ABOUTME: Engine type and shared state
// ABOUTME: Holds the buffer store, cursor, jump slot, transport flag and counters
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/foreverjukebox/fjplay/pkg/audio"
)

// Engine is a buffer-backed playback engine. The zero value is not usable;
// create one with New.
type Engine struct {
	format   audio.Format
	channels int

	// Buffer store. Replaced wholesale by Load, read by Render.
	mu          sync.Mutex
	samples     []int16
	totalFrames int64

	// Cross-goroutine state. Each field is individually atomic; there is no
	// transaction across fields.
	cursor atomic.Int64
	jump   atomic.Pointer[Jump]
	state  atomic.Int32

	stats counters
}

// Stats reports render counters
type Stats struct {
	FramesRendered uint64
	SilentFrames   uint64
	JumpsFired     uint64
	Loads          uint64
}

type counters struct {
	framesRendered atomic.Uint64
	silentFrames   atomic.Uint64
	jumpsFired     atomic.Uint64
	loads          atomic.Uint64
}

// New creates an engine for the given stream format. The channel count is
// fixed for the engine's lifetime; a non-positive count is treated as mono so
// Render can never divide by zero.
func New(format audio.Format) *Engine {
	channels := format.Channels
	if channels <= 0 {
		channels = 1
		format.Channels = 1
	}
	return &Engine{
		format:   format,
		channels: channels,
	}
}

// Format returns the stream format the engine was created with
func (e *Engine) Format() audio.Format {
	return e.format
}

// Channels returns the interleaved channel count
func (e *Engine) Channels() int {
	return e.channels
}

// Stats returns a snapshot of the render counters
func (e *Engine) Stats() Stats {
	return Stats{
		FramesRendered: e.stats.framesRendered.Load(),
		SilentFrames:   e.stats.silentFrames.Load(),
		JumpsFired:     e.stats.jumpsFired.Load(),
		Loads:          e.stats.loads.Load(),
	}
}
