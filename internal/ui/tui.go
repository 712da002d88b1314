// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program and the channels back to the player
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ActionKind identifies a transport request from the keyboard
type ActionKind int

const (
	ActionPlayPause ActionKind = iota
	ActionStop
	ActionSeek
	ActionToggleLoop
)

// Action is a transport request. Delta is the seek offset in seconds.
type Action struct {
	Kind  ActionKind
	Delta float64
}

// QuitMsg signals that the user asked to quit
type QuitMsg struct{}

// TransportControl holds channels for transport control communication
type TransportControl struct {
	Actions chan Action
	Quit    chan QuitMsg
}

// NewTransportControl creates a new transport control handler
func NewTransportControl() *TransportControl {
	return &TransportControl{
		Actions: make(chan Action, 10),
		Quit:    make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *TransportControl) Model {
	return Model{
		state:   "stopped",
		control: ctrl,
	}
}

// Run creates the TUI program
func Run(ctrl *TransportControl) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
