// ABOUTME: WebSocket remote control server for a running player
// ABOUTME: Applies client commands to the player and pushes state updates
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/foreverjukebox/fjplay/internal/discovery"
	"github.com/foreverjukebox/fjplay/internal/version"
	"github.com/foreverjukebox/fjplay/pkg/jukebox"
	"github.com/foreverjukebox/fjplay/pkg/protocol"
)

const (
	// DefaultAddr is the listen address when none is configured
	DefaultAddr = ":8930"

	// DefaultStateInterval is how often state is pushed without commands
	DefaultStateInterval = 500 * time.Millisecond

	shutdownGrace = 5 * time.Second
	helloTimeout  = 10 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Controller is the player surface the server drives
type Controller interface {
	Play()
	Pause()
	Stop()
	Seek(seconds float64)
	ScheduleJump(targetSeconds, transitionSeconds float64)
	CancelJump()
	Status() jukebox.PlayerState
}

// Config configures a remote control server
type Config struct {
	// Addr to listen on (default: :8930)
	Addr string

	// Name of the player for identification
	Name string

	// Player receives commands (required)
	Player Controller

	// EnableMDNS advertises the server via mDNS
	EnableMDNS bool

	// StateInterval between unsolicited state pushes (default: 500ms)
	StateInterval time.Duration
}

// Server accepts remote controllers over WebSocket
type Server struct {
	config   Config
	serverID string

	upgrader   websocket.Upgrader
	httpServer *http.Server
	listener   net.Listener

	clients    map[string]*client
	clientsMu  sync.RWMutex
	isShutdown bool

	mdnsManager *discovery.Manager

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// client is a connected controller
type client struct {
	ID       string
	Name     string
	Conn     *websocket.Conn
	sendChan chan interface{}
}

// ClientInfo describes a connected controller
type ClientInfo struct {
	ID   string
	Name string
}

// NewServer creates a remote control server
func NewServer(config Config) (*Server, error) {
	if config.Player == nil {
		return nil, fmt.Errorf("player is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.Name == "" {
		config.Name = version.Product
	}
	if config.StateInterval <= 0 {
		config.StateInterval = DefaultStateInterval
	}

	return &Server{
		config:   config,
		serverID: uuid.New().String(),
		upgrader: websocket.Upgrader{
			// Controllers run on the local network
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[string]*client),
		stopChan: make(chan struct{}),
	}, nil
}

// Start binds the listener and serves in the background until Stop
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc(protocol.Path, s.handleWebSocket)
	s.httpServer = &http.Server{Handler: mux}

	log.Printf("Remote control listening on %s%s (ID: %s)", ln.Addr(), protocol.Path, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        ln.Addr().(*net.TCPAddr).Port,
			Path:        protocol.Path,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		}
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
		}
	}()
	go func() {
		defer s.wg.Done()
		s.stateLoop()
	}()

	return nil
}

// Addr returns the bound listen address
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes every connection and waits for background work to finish
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		log.Printf("Remote control shutting down...")
		close(s.stopChan)

		if s.mdnsManager != nil {
			s.mdnsManager.Stop()
		}

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			if err := s.httpServer.Shutdown(ctx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
			}
			cancel()
		}

		// Hijacked connections are not closed by Shutdown
		s.clientsMu.Lock()
		s.isShutdown = true
		for _, c := range s.clients {
			c.Conn.Close()
		}
		s.clientsMu.Unlock()

		s.wg.Wait()
		log.Printf("Remote control stopped")
	})
}

// Clients returns the connected controllers
func (s *Server) Clients() []ClientInfo {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	clients := make([]ClientInfo, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, ClientInfo{ID: c.ID, Name: c.Name})
	}
	return clients
}

// stateLoop pushes state to every client on a ticker
func (s *Server) stateLoop() {
	ticker := time.NewTicker(s.config.StateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.broadcastState()
		case <-s.stopChan:
			return
		}
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)
	s.handleConnection(conn)
}

// handleConnection manages a controller connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(helloTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Printf("Error reading hello: %v", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}
	if msg.Type != protocol.TypeClientHello {
		log.Printf("Expected client/hello, got %s", msg.Type)
		return
	}

	var hello protocol.ClientHello
	if err := protocol.DecodePayload(msg.Payload, &hello); err != nil {
		log.Printf("Error parsing client hello: %v", err)
		return
	}
	if hello.ClientID == "" || hello.Name == "" {
		log.Printf("Client hello missing required fields")
		return
	}

	c := &client{
		ID:       hello.ClientID,
		Name:     hello.Name,
		Conn:     conn,
		sendChan: make(chan interface{}, 16),
	}

	s.clientsMu.Lock()
	if s.isShutdown {
		s.clientsMu.Unlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	if _, exists := s.clients[c.ID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected, rejecting duplicate", c.ID)
		return
	}
	s.clients[c.ID] = c
	s.clientsMu.Unlock()

	log.Printf("Controller connected: %s (ID: %s)", c.Name, c.ID)
	defer func() {
		s.removeClient(c)
		log.Printf("Controller disconnected: %s", c.Name)
	}()

	s.sendMessage(c, protocol.TypeServerHello, protocol.ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  version.Version,
	})
	s.sendMessage(c, protocol.TypeServerState, statusFrom(s.config.Player.Status()))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(c)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		s.handleClientMessage(c, data)
	}
}

// clientWriter sends queued messages to the client
func (s *Server) clientWriter(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// handleClientMessage processes messages from controllers
func (s *Server) handleClientMessage(c *client, data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message from %s: %v", c.Name, err)
		return
	}

	switch msg.Type {
	case protocol.TypeClientCommand:
		var cmd protocol.Command
		if err := protocol.DecodePayload(msg.Payload, &cmd); err != nil {
			log.Printf("Invalid command from %s: %v", c.Name, err)
			return
		}
		if err := s.applyCommand(cmd); err != nil {
			log.Printf("Ignoring command from %s: %v", c.Name, err)
			return
		}
		s.broadcastState()

	case protocol.TypeClientGoodbye:
		var goodbye protocol.ClientGoodbye
		if err := protocol.DecodePayload(msg.Payload, &goodbye); err == nil {
			log.Printf("Controller %s goodbye: %s", c.Name, goodbye.Reason)
		}

	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

// applyCommand drives the player. Unknown commands change nothing.
func (s *Server) applyCommand(cmd protocol.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	p := s.config.Player
	switch cmd.Command {
	case protocol.CommandPlay:
		p.Play()
	case protocol.CommandPause:
		p.Pause()
	case protocol.CommandStop:
		p.Stop()
	case protocol.CommandSeek:
		p.Seek(cmd.Seconds)
	case protocol.CommandJump:
		p.ScheduleJump(cmd.Target, cmd.Transition)
	case protocol.CommandCancelJump:
		p.CancelJump()
	}
	return nil
}

// broadcastState sends the current state to every client
func (s *Server) broadcastState() {
	status := statusFrom(s.config.Player.Status())

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		if err := s.sendMessage(c, protocol.TypeServerState, status); err != nil {
			log.Printf("Dropping state update for %s: %v", c.Name, err)
		}
	}
}

// removeClient unregisters a client and stops its writer
func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	delete(s.clients, c.ID)
	close(c.sendChan)
}

// sendMessage queues a JSON message for a client
func (s *Server) sendMessage(c *client, msgType string, payload interface{}) error {
	msg := protocol.Message{
		Type:    msgType,
		Payload: payload,
	}

	select {
	case c.sendChan <- msg:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

// statusFrom converts player state to its wire form
func statusFrom(st jukebox.PlayerState) protocol.PlayerStatus {
	return protocol.PlayerStatus{
		State:     st.State,
		Position:  st.Position,
		Duration:  st.Duration,
		JumpArmed: st.JumpArmed,
		JumpAt:    st.JumpAt,
		JumpTo:    st.JumpTo,
		Looping:   st.Looping,
	}
}
