// ABOUTME: Audio decoder package for whole-file decoding
// ABOUTME: Provides Decoder interface and implementations for WAV, MP3, FLAC, raw PCM
// Package decode turns encoded audio files into interleaved 16-bit PCM
// ready to load into a player.
//
// Supports: WAV (16/24/32-bit), MP3, FLAC, raw PCM (16-bit and 24-bit)
//
// Decoding happens up front; the player itself only ever sees PCM.
//
// Example:
//
//	pcm, err := decode.DecodeFile("song.flac", audio.Format{})
//	player.Load(pcm.Samples, pcm.Frames())
package decode
