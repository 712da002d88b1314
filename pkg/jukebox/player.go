// ABOUTME: Control API Player
// ABOUTME: Coordinates the render engine with the output device
package jukebox

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/foreverjukebox/fjplay/pkg/audio"
	"github.com/foreverjukebox/fjplay/pkg/audio/output"
	"github.com/foreverjukebox/fjplay/pkg/engine"
)

// Config holds player configuration
type Config struct {
	// SampleRate of the output stream (default: 44100)
	SampleRate int

	// Channels of the output stream (default: 2)
	Channels int

	// Backend names the output backend (default: malgo)
	Backend string

	// Output overrides Backend with a ready-made output
	Output output.Output

	// OnStateChange is called after every transport or position command.
	// It runs on the commanding goroutine and must not call back into the Player.
	OnStateChange func(PlayerState)

	// OnError is called when a device request fails
	OnError func(error)
}

// PlayerState describes the current state
type PlayerState struct {
	State     string // "stopped", "paused", "playing"
	Position  float64
	Duration  float64
	JumpArmed bool
	JumpAt    float64
	JumpTo    float64
	Looping   bool
}

// Player plays a loaded PCM buffer through an output device
type Player struct {
	config Config
	format audio.Format
	engine *engine.Engine
	output output.Output

	// Serializes control commands; never taken by the render path
	ctrl   sync.Mutex
	closed atomic.Bool

	// Orders loop start/stop against Close; taken before ctrl
	lifecycle sync.Mutex
	loopMu    sync.Mutex
	loop      *looper
}

// Open creates a player and opens its output stream. No player is returned
// when the stream cannot be opened.
func Open(config Config) (*Player, error) {
	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}
	if config.Channels == 0 {
		config.Channels = 2
	}

	format := audio.Format{
		Codec:      "pcm",
		SampleRate: config.SampleRate,
		Channels:   config.Channels,
		BitDepth:   16,
	}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stream format: %w", err)
	}

	out := config.Output
	if out == nil {
		var err error
		out, err = output.New(config.Backend)
		if err != nil {
			return nil, err
		}
	}

	eng := engine.New(format)
	if err := out.Open(format, eng.Render); err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	return &Player{
		config: config,
		format: format,
		engine: eng,
		output: out,
	}, nil
}

// usable reports whether commands should be applied
func (p *Player) usable() bool {
	return p != nil && !p.closed.Load()
}

// Load replaces the playback buffer with frameCount interleaved frames.
// Malformed input is ignored and the previous buffer keeps playing.
func (p *Player) Load(samples []int16, frameCount int) {
	if !p.usable() {
		return
	}
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	if !p.engine.Load(samples, frameCount) {
		log.Printf("Ignoring malformed load: %d samples, %d frames, %d channels",
			len(samples), frameCount, p.format.Channels)
		return
	}
	log.Printf("Loaded %d frames (%.2fs)", frameCount, p.engine.Duration())
	p.notifyStateChange()
}

// LoadPCM loads little-endian interleaved 16-bit PCM bytes
func (p *Player) LoadPCM(data []byte) {
	if !p.usable() {
		return
	}
	frameBytes := p.format.BytesPerFrame()
	if len(data) == 0 || len(data)%frameBytes != 0 {
		log.Printf("Ignoring malformed PCM load: %d bytes is not a whole number of %d-byte frames",
			len(data), frameBytes)
		return
	}
	samples := audio.BytesToInt16(data)
	p.Load(samples, len(samples)/p.format.Channels)
}

// Play requests the stream to start. Calling it while playing re-issues
// the start request.
func (p *Player) Play() {
	if !p.usable() {
		return
	}
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	if err := p.output.Start(); err != nil {
		p.notifyError(fmt.Errorf("failed to start output: %w", err))
	}
	p.engine.Play()
	p.notifyStateChange()
}

// Pause requests the stream to pause. The position is kept.
func (p *Player) Pause() {
	if !p.usable() {
		return
	}
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	if err := p.output.Pause(); err != nil {
		p.notifyError(fmt.Errorf("failed to pause output: %w", err))
	}
	p.engine.Pause()
	p.notifyStateChange()
}

// Stop requests the stream to stop and rewinds to the start
func (p *Player) Stop() {
	if !p.usable() {
		return
	}
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	if err := p.output.Stop(); err != nil {
		p.notifyError(fmt.Errorf("failed to stop output: %w", err))
	}
	p.engine.Stop()
	p.notifyStateChange()
}

// Seek moves playback to seconds immediately and cancels any scheduled jump.
// Negative times seek to the start.
func (p *Player) Seek(seconds float64) {
	if !p.usable() {
		return
	}
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.engine.Seek(seconds)
	p.notifyStateChange()
}

// ScheduleJump arranges for playback to continue from targetSeconds once it
// reaches transitionSeconds. It replaces any previously scheduled jump.
func (p *Player) ScheduleJump(targetSeconds, transitionSeconds float64) {
	if !p.usable() {
		return
	}
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.engine.ScheduleJump(targetSeconds, transitionSeconds)
	p.notifyStateChange()
}

// CancelJump drops the scheduled jump, if any
func (p *Player) CancelJump() {
	if !p.usable() {
		return
	}
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.engine.CancelJump()
	p.notifyStateChange()
}

// CurrentTime returns the playback position in seconds
func (p *Player) CurrentTime() float64 {
	if !p.usable() {
		return 0
	}
	return p.engine.CurrentTime()
}

// Duration returns the loaded buffer length in seconds
func (p *Player) Duration() float64 {
	if !p.usable() {
		return 0
	}
	return p.engine.Duration()
}

// IsPlaying reports whether playback is running
func (p *Player) IsPlaying() bool {
	if !p.usable() {
		return false
	}
	return p.engine.IsPlaying()
}

// Format returns the negotiated stream format
func (p *Player) Format() audio.Format {
	if p == nil {
		return audio.Format{}
	}
	return p.format
}

// Status returns the current player state
func (p *Player) Status() PlayerState {
	if !p.usable() {
		return PlayerState{State: engine.Stopped.String()}
	}

	state := PlayerState{
		State:    p.engine.State().String(),
		Position: p.engine.CurrentTime(),
		Duration: p.engine.Duration(),
		Looping:  p.loopActive(),
	}
	if j, ok := p.engine.PendingJump(); ok {
		state.JumpArmed = true
		state.JumpAt = p.format.Seconds(j.At)
		state.JumpTo = p.format.Seconds(j.To)
	}
	return state
}

// Stats returns render statistics
func (p *Player) Stats() engine.Stats {
	if !p.usable() {
		return engine.Stats{}
	}
	return p.engine.Stats()
}

// Close stops playback and releases the output. Later calls do nothing.
func (p *Player) Close() error {
	if p == nil {
		return nil
	}
	p.lifecycle.Lock()
	if !p.closed.CompareAndSwap(false, true) {
		p.lifecycle.Unlock()
		return nil
	}
	p.stopLoop()
	p.lifecycle.Unlock()

	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.engine.Stop()
	if err := p.output.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	log.Printf("Player closed")
	return nil
}

// notifyStateChange calls the OnStateChange callback if set
func (p *Player) notifyStateChange() {
	if p.config.OnStateChange != nil {
		p.config.OnStateChange(p.Status())
	}
}

// notifyError calls the OnError callback if set
func (p *Player) notifyError(err error) {
	if p.config.OnError != nil {
		p.config.OnError(err)
	} else {
		log.Printf("Player error: %v", err)
	}
}
