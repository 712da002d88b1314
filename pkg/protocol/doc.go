// ABOUTME: Remote control wire protocol package
// ABOUTME: Defines protocol messages and WebSocket client
// Package protocol implements the JSON-over-WebSocket control protocol
// spoken between a running player and remote controllers.
//
// Every message is an envelope {"type": ..., "payload": ...}. A client
// opens with client/hello, the player answers server/hello and then pushes
// server/state whenever its transport changes.
//
// Example:
//
//	client := protocol.NewClient(protocol.Config{ServerAddr: "localhost:8930", ClientID: id, Name: "fjctl"})
//	err := client.Connect()
//	err = client.SendCommand(protocol.Command{Command: protocol.CommandSeek, Seconds: 30})
package protocol
