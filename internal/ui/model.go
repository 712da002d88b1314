// ABOUTME: Bubbletea model for the player TUI
// ABOUTME: Defines display state, key handling and rendering
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// seekStep is how far left/right move the playhead, in seconds
const seekStep = 5.0

var (
	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	jumpStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// Model represents the TUI state
type Model struct {
	// Track
	title  string
	format string
	remote string

	// Transport
	state     string
	position  float64
	duration  float64
	jumpArmed bool
	jumpAt    float64
	jumpTo    float64

	// Loop
	looping   bool
	loopStart float64
	loopEnd   float64

	// Stats
	rendered   uint64
	silent     uint64
	jumpsFired uint64

	// Debug
	showDebug  bool
	goroutines int
	memAlloc   uint64

	// Dimensions
	width  int
	height int

	control *TransportControl
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderTransport()
	s += m.renderJump()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders the track and output format
func (m Model) renderHeader() string {
	title := m.title
	if title == "" {
		title = "(nothing loaded)"
	}
	remote := "off"
	if m.remote != "" {
		remote = m.remote
	}

	return fmt.Sprintf(`┌─ Forever Jukebox Player ─────────────────────────────┐
│ Track:  %-44s │
│ Format: %-44s │
│ Remote: %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(title, 44), truncate(m.format, 44), truncate(remote, 44))
}

// renderTransport renders state and the position bar
func (m Model) renderTransport() string {
	icon, style := "■", stoppedStyle
	switch m.state {
	case "playing":
		icon, style = "▶", playingStyle
	case "paused":
		icon, style = "⏸", pausedStyle
	}

	// Pad before styling so escape codes don't skew the column
	state := style.Render(fmt.Sprintf("%s %-8s", icon, m.state))
	bar := renderBar(m.position, m.duration, 30)
	return fmt.Sprintf("│ %s %s / %s%-22s │\n"+
		"│ [%s]%-22s │\n",
		state, formatTime(m.position), formatTime(m.duration), "",
		bar, "")
}

// renderJump renders the pending jump and loop region
func (m Model) renderJump() string {
	jump := fmt.Sprintf("%-44s", "none")
	if m.jumpArmed {
		jump = jumpStyle.Render(fmt.Sprintf("%-44s", formatTime(m.jumpAt)+" -> "+formatTime(m.jumpTo)))
	}
	loop := "off"
	if m.looping {
		loop = fmt.Sprintf("%s - %s", formatTime(m.loopStart), formatTime(m.loopEnd))
	} else if m.loopEnd > m.loopStart {
		loop = fmt.Sprintf("off (%s - %s)", formatTime(m.loopStart), formatTime(m.loopEnd))
	}

	return fmt.Sprintf("│ Jump:   %s │\n"+
		"│ Loop:   %-44s │\n",
		jump, loop)
}

// renderStats renders render statistics
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Stats:  Frames: %d  Silent: %d  Jumps: %d%-6s │
│                                                      │
`, m.rendered, m.silent, m.jumpsFired, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ space:Play/Pause  s:Stop  ←/→:Seek  l:Loop  q:Quit  │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Goroutines: %-38d │
│   Heap: %-44s │
`, m.goroutines, formatBytes(m.memAlloc))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.control != nil {
			select {
			case m.control.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case " ", "space":
		m.send(Action{Kind: ActionPlayPause})
	case "s":
		m.send(Action{Kind: ActionStop})
	case "left":
		m.send(Action{Kind: ActionSeek, Delta: -seekStep})
	case "right":
		m.send(Action{Kind: ActionSeek, Delta: seekStep})
	case "l":
		m.send(Action{Kind: ActionToggleLoop})
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// send forwards an action without blocking the UI
func (m Model) send(a Action) {
	if m.control == nil {
		return
	}
	select {
	case m.control.Actions <- a:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Title != "" {
		m.title = msg.Title
	}
	if msg.Format != "" {
		m.format = msg.Format
	}
	if msg.Remote != "" {
		m.remote = msg.Remote
	}
	if msg.State != "" {
		m.state = msg.State
		m.position = msg.Position
		m.duration = msg.Duration
		m.jumpArmed = msg.JumpArmed
		m.jumpAt = msg.JumpAt
		m.jumpTo = msg.JumpTo
		m.looping = msg.Looping
	}
	if msg.LoopEnd > msg.LoopStart {
		m.loopStart = msg.LoopStart
		m.loopEnd = msg.LoopEnd
	}
	if msg.FramesRendered != 0 {
		m.rendered = msg.FramesRendered
		m.silent = msg.SilentFrames
		m.jumpsFired = msg.JumpsFired
	}
	if msg.Goroutines != 0 {
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
	}
}

// StatusMsg updates TUI state. Zero fields leave the display unchanged;
// a non-empty State replaces the whole transport section.
type StatusMsg struct {
	Title  string
	Format string
	Remote string

	State     string
	Position  float64
	Duration  float64
	JumpArmed bool
	JumpAt    float64
	JumpTo    float64
	Looping   bool

	LoopStart float64
	LoopEnd   float64

	FramesRendered uint64
	SilentFrames   uint64
	JumpsFired     uint64

	Goroutines int
	MemAlloc   uint64
}

// Utility functions
func renderBar(value, total float64, width int) string {
	filled := 0
	if total > 0 {
		filled = int(value / total * float64(width))
	}
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d.%d", total/60, total%60, int((seconds-float64(total))*10))
}

func formatBytes(b uint64) string {
	const mb = 1024 * 1024
	return fmt.Sprintf("%.1f MB", float64(b)/mb)
}
