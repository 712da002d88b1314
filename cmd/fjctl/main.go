// ABOUTME: Command-line remote control for a running fjplay player
// ABOUTME: Finds a player via mDNS or -server and sends one command
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/foreverjukebox/fjplay/internal/discovery"
	"github.com/foreverjukebox/fjplay/pkg/protocol"
)

var (
	serverAddr = flag.String("server", "", "Player address host:port (skip mDNS)")
	timeout    = flag.Duration("timeout", 5*time.Second, "How long to wait for discovery and replies")
	verbose    = flag.Bool("v", false, "Log protocol traffic")
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: fjctl [flags] <command> [args]

commands:
  status                       print the player state
  play | pause | stop          transport control
  seek <seconds>               move the playhead
  jump <target> <transition>   at transition seconds, continue from target
  cancel_jump                  drop the scheduled jump

flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	statusOnly := flag.Arg(0) == "status"
	var cmd protocol.Command
	if !statusOnly {
		var err error
		cmd, err = parseCommand(flag.Args())
		if err != nil {
			fmt.Fprintf(os.Stderr, "fjctl: %v\n", err)
			os.Exit(2)
		}
	}

	addr := *serverAddr
	if addr == "" {
		var err error
		addr, err = discover(*timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fjctl: %v\n", err)
			os.Exit(1)
		}
	}

	client := protocol.NewClient(protocol.Config{
		ServerAddr: addr,
		ClientID:   uuid.New().String(),
		Name:       "fjctl",
	})
	if err := client.Connect(); err != nil {
		fmt.Fprintf(os.Stderr, "fjctl: failed to connect to %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer client.Close()

	// The player pushes its state right after the handshake
	st, err := nextState(client, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fjctl: %v\n", err)
		os.Exit(1)
	}

	if !statusOnly {
		if err := client.SendCommand(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "fjctl: failed to send %s: %v\n", cmd.Command, err)
			os.Exit(1)
		}
		if st, err = nextState(client, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "fjctl: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println(formatStatus(client.Server().Name, st))
	client.SendGoodbye("done")
}

// parseCommand turns command-line arguments into a protocol command
func parseCommand(args []string) (protocol.Command, error) {
	if len(args) == 0 {
		return protocol.Command{}, fmt.Errorf("missing command")
	}

	cmd := protocol.Command{Command: args[0]}
	if err := cmd.Validate(); err != nil {
		return protocol.Command{}, err
	}

	want := 0
	switch cmd.Command {
	case protocol.CommandSeek:
		want = 1
	case protocol.CommandJump:
		want = 2
	}
	if len(args)-1 != want {
		return protocol.Command{}, fmt.Errorf("%s takes %d argument(s), got %d", cmd.Command, want, len(args)-1)
	}

	values := make([]float64, want)
	for i := range values {
		v, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return protocol.Command{}, fmt.Errorf("invalid seconds %q: %w", args[i+1], err)
		}
		values[i] = v
	}

	switch cmd.Command {
	case protocol.CommandSeek:
		cmd.Seconds = values[0]
	case protocol.CommandJump:
		cmd.Target = values[0]
		cmd.Transition = values[1]
	}
	return cmd, nil
}

// discover returns the address of the first player found via mDNS
func discover(timeout time.Duration) (string, error) {
	disc := discovery.NewManager(discovery.Config{})
	disc.Browse()
	defer disc.Stop()

	select {
	case server := <-disc.Servers():
		return server.Addr(), nil
	case <-time.After(timeout):
		return "", fmt.Errorf("no player found after %s (use -server)", timeout)
	}
}

// nextState waits for the next state push
func nextState(client *protocol.Client, timeout time.Duration) (protocol.PlayerStatus, error) {
	select {
	case st := <-client.States:
		return st, nil
	case <-time.After(timeout):
		return protocol.PlayerStatus{}, fmt.Errorf("no state received after %s", timeout)
	}
}

// formatStatus renders a state for the terminal
func formatStatus(name string, st protocol.PlayerStatus) string {
	s := fmt.Sprintf("%s: %s %.2fs / %.2fs", name, st.State, st.Position, st.Duration)
	if st.JumpArmed {
		s += fmt.Sprintf(" | jump %.2fs -> %.2fs", st.JumpAt, st.JumpTo)
	}
	if st.Looping {
		s += " | looping"
	}
	return s
}
