// ABOUTME: Transport state for the render engine
// ABOUTME: Playing/paused/stopped flag and cursor queries
package engine

// State is the transport state
type State int32

const (
	Stopped State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Play marks the transport as playing. The cursor is left where it is.
func (e *Engine) Play() {
	e.state.Store(int32(Playing))
}

// Pause clears the playing flag and keeps the cursor so playback resumes
// from the same frame.
func (e *Engine) Pause() {
	e.state.Store(int32(Paused))
}

// Stop clears the playing flag and rewinds the cursor to 0
func (e *Engine) Stop() {
	e.state.Store(int32(Stopped))
	e.cursor.Store(0)
}

// State returns the transport state
func (e *Engine) State() State {
	return State(e.state.Load())
}

// IsPlaying reports whether the transport is playing
func (e *Engine) IsPlaying() bool {
	return e.State() == Playing
}

// Cursor returns the next frame to be rendered
func (e *Engine) Cursor() int64 {
	return e.cursor.Load()
}

// CurrentTime returns the cursor position in seconds
func (e *Engine) CurrentTime() float64 {
	return e.format.Seconds(e.cursor.Load())
}
