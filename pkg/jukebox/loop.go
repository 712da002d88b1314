// ABOUTME: Seamless loop region built on scheduled jumps
// ABOUTME: Re-arms an end->start jump from the control path after each firing
package jukebox

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// loopPoll is how often the loop checks whether its jump has fired. A loop
// region must be longer than this plus one device period to repeat cleanly.
const loopPoll = 5 * time.Millisecond

type looper struct {
	start  int64
	end    int64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SetLoop repeats [startSeconds, endSeconds) seamlessly until ClearLoop.
// Each pass is a sample-exact jump from end back to start.
func (p *Player) SetLoop(startSeconds, endSeconds float64) error {
	if !p.usable() {
		return nil
	}

	start := p.format.Frames(startSeconds)
	end := p.format.Frames(endSeconds)
	if end <= start {
		return fmt.Errorf("loop end %.3fs must be after start %.3fs", endSeconds, startSeconds)
	}

	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if p.closed.Load() {
		return nil
	}
	p.stopLoop()

	ctx, cancel := context.WithCancel(context.Background())
	l := &looper{start: start, end: end, cancel: cancel}

	p.loopMu.Lock()
	p.loop = l
	p.loopMu.Unlock()

	l.wg.Add(1)
	go p.runLoop(ctx, l)

	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.armLoopLocked(l)
	log.Printf("Loop set: %.3fs -> %.3fs", startSeconds, endSeconds)
	p.notifyStateChange()
	return nil
}

// ClearLoop stops repeating and drops the loop's pending jump
func (p *Player) ClearLoop() {
	if !p.usable() {
		return
	}
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	l := p.stopLoop()
	if l == nil {
		return
	}

	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	if j, ok := p.engine.PendingJump(); ok && j.At == l.end && j.To == l.start {
		p.engine.CancelJump()
	}
	p.notifyStateChange()
}

// Loop returns the active loop region in seconds
func (p *Player) Loop() (start, end float64, ok bool) {
	if p == nil {
		return 0, 0, false
	}
	p.loopMu.Lock()
	l := p.loop
	p.loopMu.Unlock()

	if l == nil {
		return 0, 0, false
	}
	return p.format.Seconds(l.start), p.format.Seconds(l.end), true
}

// runLoop re-arms the loop jump until ctx is cancelled
func (p *Player) runLoop(ctx context.Context, l *looper) {
	defer l.wg.Done()

	ticker := time.NewTicker(loopPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.armLoop(l)
		}
	}
}

// armLoop schedules the loop jump when nothing else is pending and the
// cursor has not already passed the loop end
func (p *Player) armLoop(l *looper) {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()
	p.armLoopLocked(l)
}

func (p *Player) armLoopLocked(l *looper) {
	if p.closed.Load() {
		return
	}
	if _, ok := p.engine.PendingJump(); ok {
		return
	}
	if p.engine.Cursor() >= l.end {
		return
	}
	p.engine.ScheduleJumpFrames(l.end, l.start)
}

// stopLoop cancels the running loop and waits for its goroutine.
// Callers hold p.lifecycle.
func (p *Player) stopLoop() *looper {
	p.loopMu.Lock()
	l := p.loop
	p.loop = nil
	p.loopMu.Unlock()

	if l != nil {
		l.cancel()
		l.wg.Wait()
	}
	return l
}

// loopActive reports whether a loop is running
func (p *Player) loopActive() bool {
	p.loopMu.Lock()
	defer p.loopMu.Unlock()
	return p.loop != nil
}
