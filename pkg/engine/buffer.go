// ABOUTME: Buffer store for the render engine
// ABOUTME: Copies PCM on the control path and swaps it under a short lock
package engine

// Load replaces the owned buffer with a copy of samples. frameCount must be
// positive and samples must hold exactly frameCount*channels values;
// anything else is ignored and the previous buffer is kept. A successful load
// resets the cursor to 0 and disarms any pending jump. It reports whether the
// buffer was replaced.
func (e *Engine) Load(samples []int16, frameCount int) bool {
	if frameCount <= 0 || len(samples) != frameCount*e.channels {
		return false
	}

	owned := make([]int16, len(samples))
	copy(owned, samples)

	e.mu.Lock()
	e.samples = owned
	e.totalFrames = int64(frameCount)
	e.cursor.Store(0)
	e.jump.Store(nil)
	e.mu.Unlock()

	e.stats.loads.Add(1)
	return true
}

// LoadInterleaved loads samples whose frame count is implied by the channel
// count. Empty input or a length that is not a whole number of frames is
// ignored.
func (e *Engine) LoadInterleaved(samples []int16) bool {
	if len(samples) == 0 || len(samples)%e.channels != 0 {
		return false
	}
	return e.Load(samples, len(samples)/e.channels)
}

// TotalFrames returns the frame count of the loaded buffer (0 when empty)
func (e *Engine) TotalFrames() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalFrames
}

// Duration returns the loaded buffer length in seconds
func (e *Engine) Duration() float64 {
	return e.format.Seconds(e.TotalFrames())
}

// copyFrames writes len(dst)/channels frames starting at frame start.
// Frames outside [0, totalFrames) are silence. Caller holds e.mu.
func (e *Engine) copyFrames(dst []int16, start int64) {
	frames := int64(len(dst) / e.channels)
	var copied int64

	if start >= 0 && start < e.totalFrames {
		copied = min(frames, e.totalFrames-start)
		offset := start * int64(e.channels)
		copy(dst, e.samples[offset:offset+copied*int64(e.channels)])
	}

	if copied < frames {
		clear(dst[copied*int64(e.channels):])
		e.stats.silentFrames.Add(uint64(frames - copied))
	}
}
