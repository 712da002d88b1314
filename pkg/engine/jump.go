// ABOUTME: Jump schedule and seeking for the render engine
// ABOUTME: Arms a single pending frame-exact jump; seek relocates immediately
package engine

// Jump relocates the cursor to To when the cursor reaches At. A Jump is
// immutable once scheduled; rescheduling replaces the pointer.
type Jump struct {
	At int64
	To int64
}

// ScheduleJump arms a jump that fires when playback reaches transition
// seconds and continues from target seconds. Negative times clamp to frame 0.
// Any previously pending jump is replaced.
func (e *Engine) ScheduleJump(target, transition float64) {
	e.ScheduleJumpFrames(e.format.Frames(transition), e.format.Frames(target))
}

// ScheduleJumpFrames arms a jump in frame units. Negative frames clamp to 0.
// A trigger at or before the cursor fires at the start of the next render.
func (e *Engine) ScheduleJumpFrames(at, to int64) {
	e.jump.Store(&Jump{At: max(at, 0), To: max(to, 0)})
}

// CancelJump disarms the pending jump, if any
func (e *Engine) CancelJump() {
	e.jump.Store(nil)
}

// PendingJump returns the armed jump
func (e *Engine) PendingJump() (Jump, bool) {
	j := e.jump.Load()
	if j == nil {
		return Jump{}, false
	}
	return *j, true
}

// Seek moves the cursor to seconds immediately and disarms any pending jump.
// Negative times clamp to frame 0.
func (e *Engine) Seek(seconds float64) {
	e.SeekFrame(e.format.Frames(seconds))
}

// SeekFrame moves the cursor to frame immediately and disarms any pending jump
func (e *Engine) SeekFrame(frame int64) {
	e.cursor.Store(max(frame, 0))
	e.jump.Store(nil)
}

// fire applies j if it is still the armed jump. It returns the new cursor
// and whether the jump was applied. A jump replaced by the control path
// since it was loaded is left alone.
func (e *Engine) fire(j *Jump, cursor int64) (int64, bool) {
	if !e.jump.CompareAndSwap(j, nil) {
		return cursor, false
	}
	e.stats.jumpsFired.Add(1)
	return j.To, true
}
