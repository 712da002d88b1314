package main

import (
	"strings"
	"testing"

	"github.com/foreverjukebox/fjplay/pkg/protocol"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    protocol.Command
		wantErr bool
	}{
		{"play", []string{"play"}, protocol.Command{Command: "play"}, false},
		{"cancel", []string{"cancel_jump"}, protocol.Command{Command: "cancel_jump"}, false},
		{"seek", []string{"seek", "12.5"}, protocol.Command{Command: "seek", Seconds: 12.5}, false},
		{"jump", []string{"jump", "3", "40"}, protocol.Command{Command: "jump", Target: 3, Transition: 40}, false},
		{"seek missing arg", []string{"seek"}, protocol.Command{}, true},
		{"play extra arg", []string{"play", "1"}, protocol.Command{}, true},
		{"jump bad number", []string{"jump", "x", "4"}, protocol.Command{}, true},
		{"unknown", []string{"rewind"}, protocol.Command{}, true},
		{"empty", nil, protocol.Command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommand(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFormatStatus(t *testing.T) {
	s := formatStatus("den", protocol.PlayerStatus{State: "playing", Position: 1, Duration: 60, JumpArmed: true, JumpAt: 30, JumpTo: 10, Looping: true})

	for _, want := range []string{"den: playing 1.00s / 60.00s", "jump 30.00s -> 10.00s", "looping"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}

	if strings.Contains(formatStatus("den", protocol.PlayerStatus{State: "stopped"}), "jump") {
		t.Error("expected no jump text when none is armed")
	}
}
