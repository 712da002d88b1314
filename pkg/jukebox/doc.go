// ABOUTME: High-level playback control API
// ABOUTME: Opens a device and exposes load/transport/seek/jump commands
// Package jukebox provides the control surface for buffer-backed playback.
//
// A Player owns a render engine and the device stream that drives it. All
// methods are safe to call on a nil or closed Player; they do nothing and
// queries return zero values.
//
// Example:
//
//	player, err := jukebox.Open(jukebox.Config{SampleRate: 44100, Channels: 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer player.Close()
//
//	player.Load(samples, frames)
//	player.ScheduleJump(12.0, 30.5) // at 30.5s, continue from 12.0s
//	player.Play()
package jukebox
