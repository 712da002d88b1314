// ABOUTME: Entry point for the fjplay buffer player
// ABOUTME: Decodes a file, plays it with optional looping, TUI and remote control
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foreverjukebox/fjplay/internal/remote"
	"github.com/foreverjukebox/fjplay/internal/ui"
	"github.com/foreverjukebox/fjplay/internal/version"
	"github.com/foreverjukebox/fjplay/pkg/audio"
	"github.com/foreverjukebox/fjplay/pkg/audio/decode"
	"github.com/foreverjukebox/fjplay/pkg/jukebox"
)

var (
	file       = flag.String("file", "", "Audio file to play (wav, mp3, flac, pcm/raw)")
	backend    = flag.String("backend", "", "Output backend: malgo, oto, portaudio, headless (default: malgo)")
	rate       = flag.Int("rate", 0, "Output sample rate in Hz (0 = the file's rate)")
	loopStart  = flag.Float64("loop-start", 0, "Loop region start in seconds")
	loopEnd    = flag.Float64("loop-end", 0, "Loop region end in seconds (loop enabled when > loop-start)")
	remotePort = flag.Int("remote-port", 8930, "Remote control port (0 disables)")
	enableMDNS = flag.Bool("mdns", false, "Advertise remote control via mDNS")
	name       = flag.String("name", "", "Player friendly name (default: hostname-fjplay)")
	logFile    = flag.String("log-file", "fjplay.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: fjplay -file <audio file> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	playerName := *name
	if playerName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		playerName = fmt.Sprintf("%s-%s", hostname, version.Product)
	}

	log.Printf("Starting %s %s: %s", version.Product, version.Version, playerName)

	// Raw PCM has no header; assume stereo 16-bit at the requested rate
	rawFormat := audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 2, BitDepth: 16}
	if *rate > 0 {
		rawFormat.SampleRate = *rate
	}

	pcm, err := decode.DecodeFile(*file, rawFormat)
	if err != nil {
		log.Fatalf("Failed to load audio: %v", err)
	}
	log.Printf("Decoded %s: %s, %.2fs", filepath.Base(*file), pcm.Format, pcm.Duration())

	streamRate := *rate
	if streamRate == 0 {
		streamRate = pcm.Format.SampleRate
	}
	if streamRate != pcm.Format.SampleRate {
		log.Fatalf("File is %dHz but output is %dHz; resampling is not supported", pcm.Format.SampleRate, streamRate)
	}

	// TUI setup
	var tuiProg *tea.Program
	var transportCtrl *ui.TransportControl

	if useTUI {
		transportCtrl = ui.NewTransportControl()
		tuiProg, err = ui.Run(transportCtrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	player, err := jukebox.Open(jukebox.Config{
		SampleRate: streamRate,
		Channels:   pcm.Format.Channels,
		Backend:    *backend,
		OnError: func(err error) {
			log.Printf("Player error: %v", err)
		},
	})
	if err != nil {
		if tuiProg != nil {
			tuiProg.Kill()
		}
		log.Fatalf("Failed to open player: %v", err)
	}

	player.Load(pcm.Samples, pcm.Frames())

	updateTUI(ui.StatusMsg{
		Title:     filepath.Base(*file),
		Format:    player.Format().String(),
		LoopStart: *loopStart,
		LoopEnd:   *loopEnd,
	})

	if *loopEnd > *loopStart {
		if err := player.SetLoop(*loopStart, *loopEnd); err != nil {
			log.Printf("Failed to set loop: %v", err)
		}
	}

	var remoteServer *remote.Server
	if *remotePort > 0 {
		remoteServer, err = remote.NewServer(remote.Config{
			Addr:       fmt.Sprintf(":%d", *remotePort),
			Name:       playerName,
			Player:     player,
			EnableMDNS: *enableMDNS,
		})
		if err == nil {
			err = remoteServer.Start()
		}
		if err != nil {
			log.Printf("Remote control disabled: %v", err)
			remoteServer = nil
		}
	}

	done := make(chan struct{})

	if transportCtrl != nil {
		go handleTransportControl(player, transportCtrl, done)
	}
	if tuiProg != nil {
		remoteStatus := func() string {
			if remoteServer == nil {
				return ""
			}
			return fmt.Sprintf("%s (%d connected)", remoteServer.Addr(), len(remoteServer.Clients()))
		}
		go statsUpdateLoop(player, remoteStatus, updateTUI, done)
	}

	player.Play()

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if transportCtrl != nil {
		select {
		case <-transportCtrl.Quit:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	close(done)
	if tuiProg != nil {
		tuiProg.Quit()
	}
	if remoteServer != nil {
		remoteServer.Stop()
	}
	if err := player.Close(); err != nil {
		log.Printf("Error closing player: %v", err)
	}

	log.Printf("Player stopped")
}

// handleTransportControl applies key presses from the TUI
func handleTransportControl(player *jukebox.Player, ctrl *ui.TransportControl, done <-chan struct{}) {
	for {
		select {
		case a := <-ctrl.Actions:
			switch a.Kind {
			case ui.ActionPlayPause:
				if player.IsPlaying() {
					player.Pause()
				} else {
					player.Play()
				}
			case ui.ActionStop:
				player.Stop()
			case ui.ActionSeek:
				target := player.CurrentTime() + a.Delta
				player.Seek(min(max(target, 0), player.Duration()))
			case ui.ActionToggleLoop:
				toggleLoop(player)
			}
		case <-done:
			return
		}
	}
}

// toggleLoop switches the configured loop region on or off
func toggleLoop(player *jukebox.Player) {
	if _, _, ok := player.Loop(); ok {
		player.ClearLoop()
		log.Printf("Loop disabled")
		return
	}
	if *loopEnd <= *loopStart {
		log.Printf("No loop region configured (use -loop-start and -loop-end)")
		return
	}
	if err := player.SetLoop(*loopStart, *loopEnd); err != nil {
		log.Printf("Failed to set loop: %v", err)
	}
}

// statsUpdateLoop periodically updates TUI with playback state and statistics
func statsUpdateLoop(player *jukebox.Player, remoteStatus func() string, updateTUI func(ui.StatusMsg), done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	// Runtime stats are collected less often to keep GC pressure down
	runtimeStatsTicker := time.NewTicker(2 * time.Second)
	defer runtimeStatsTicker.Stop()

	var lastGoroutines int
	var lastMemAlloc uint64

	for {
		select {
		case <-runtimeStatsTicker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			lastGoroutines = runtime.NumGoroutine()
			lastMemAlloc = m.Alloc

		case <-ticker.C:
			status := player.Status()
			stats := player.Stats()

			updateTUI(ui.StatusMsg{
				Remote:         remoteStatus(),
				State:          status.State,
				Position:       status.Position,
				Duration:       status.Duration,
				JumpArmed:      status.JumpArmed,
				JumpAt:         status.JumpAt,
				JumpTo:         status.JumpTo,
				Looping:        status.Looping,
				FramesRendered: stats.FramesRendered,
				SilentFrames:   stats.SilentFrames,
				JumpsFired:     stats.JumpsFired,
				Goroutines:     lastGoroutines,
				MemAlloc:       lastMemAlloc,
			})

		case <-done:
			return
		}
	}
}
