// ABOUTME: Real-time PCM render engine package
// ABOUTME: Buffer store, transport state, jump schedule and render loop
// Package engine renders a loaded PCM buffer into device callbacks.
//
// An Engine owns one interleaved int16 buffer, a frame cursor, a transport
// flag and at most one pending jump. The control path (Load, Seek,
// ScheduleJump, Play/Pause/Stop) may run on any goroutine; Render is called
// from the device callback and never allocates, logs or blocks on anything
// but the buffer lock, which is only held for bounded copies.
//
// A jump relocates the cursor when it reaches a trigger frame. Render splits
// its output at the trigger so the splice lands on an exact frame boundary
// regardless of how the device chunks its callbacks:
//
//	eng := engine.New(audio.Format{SampleRate: 44100, Channels: 2})
//	eng.Load(samples, frames)
//	eng.ScheduleJump(1.5, 0.5) // at 0.5s, continue from 1.5s
//	eng.Render(out)
package engine
