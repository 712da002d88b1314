// Package remote serves the WebSocket control endpoint of a running player.
//
// Controllers connect, exchange hellos, then send client/command messages.
// Every applied command, and a periodic ticker, pushes server/state to all
// connected controllers.
package remote
