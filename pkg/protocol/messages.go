// ABOUTME: Remote control protocol message type definitions
// ABOUTME: Defines the JSON envelope and payloads exchanged with a player
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message types
const (
	TypeClientHello   = "client/hello"
	TypeClientCommand = "client/command"
	TypeClientGoodbye = "client/goodbye"
	TypeServerHello   = "server/hello"
	TypeServerState   = "server/state"
)

// Commands accepted in client/command
const (
	CommandPlay       = "play"
	CommandPause      = "pause"
	CommandStop       = "stop"
	CommandSeek       = "seek"
	CommandJump       = "jump"
	CommandCancelJump = "cancel_jump"
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// ClientGoodbye is sent before a client disconnects
type ClientGoodbye struct {
	Reason string `json:"reason"`
}

// Command is a transport or position command for the player.
// Seconds is used by seek; Target and Transition by jump.
type Command struct {
	Command    string  `json:"command"`
	Seconds    float64 `json:"seconds,omitempty"`
	Target     float64 `json:"target,omitempty"`
	Transition float64 `json:"transition,omitempty"`
}

// Validate checks that the command is known
func (c Command) Validate() error {
	switch c.Command {
	case CommandPlay, CommandPause, CommandStop, CommandSeek, CommandJump, CommandCancelJump:
		return nil
	default:
		return fmt.Errorf("unknown command: %q", c.Command)
	}
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

// PlayerStatus is sent as server/state
type PlayerStatus struct {
	State     string  `json:"state"` // "stopped", "paused" or "playing"
	Position  float64 `json:"position"`
	Duration  float64 `json:"duration"`
	JumpArmed bool    `json:"jump_armed"`
	JumpAt    float64 `json:"jump_at,omitempty"`
	JumpTo    float64 `json:"jump_to,omitempty"`
	Looping   bool    `json:"looping,omitempty"`
}

// DecodePayload re-decodes a generic payload into v
func DecodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
