// ABOUTME: Real-time render loop
// ABOUTME: Fills device output exactly, splitting at a scheduled jump frame
package engine

// Render fills out with len(out)/channels interleaved frames starting at the
// cursor and advances the cursor. A pending jump whose trigger falls inside
// the requested span splits the output at exactly that frame. Frames past the
// end of the buffer, or with no buffer loaded, are silence.
//
// Render is meant to be called from a device callback: it does not allocate
// and holds the buffer lock only for the duration of the copy.
func (e *Engine) Render(out []int16) {
	ch := e.channels
	frames := len(out) / ch
	if tail := len(out) - frames*ch; tail > 0 {
		clear(out[frames*ch:])
	}
	if frames == 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.cursor.Load()
	cursor := start

	// A trigger at or behind the cursor fires before anything is rendered
	if j := e.jump.Load(); j != nil && j.At <= cursor {
		cursor, _ = e.fire(j, cursor)
	}

	pos := 0
	for remaining := frames; remaining > 0; {
		chunk := remaining
		if j := e.jump.Load(); j != nil && j.At > cursor && j.At-cursor < int64(remaining) {
			chunk = int(j.At - cursor)
		}

		e.copyFrames(out[pos*ch:(pos+chunk)*ch], cursor)
		cursor += int64(chunk)
		pos += chunk
		remaining -= chunk

		if j := e.jump.Load(); j != nil && j.At == cursor {
			cursor, _ = e.fire(j, cursor)
		}
	}

	e.stats.framesRendered.Add(uint64(frames))

	// A seek or stop that landed while rendering wins over our advance
	e.cursor.CompareAndSwap(start, cursor)
}
