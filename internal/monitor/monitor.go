// ABOUTME: WebSocket PCM tap for live inspection of the playback stream
// ABOUTME: Mirrors submitted buffers as timestamped binary frames to connected clients
package monitor

import (
	"encoding/binary"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pingpong-audio/pingpong-go/internal/clock"
)

// FrameMessageType tags binary PCM frame messages.
const FrameMessageType = 1

// Config holds monitor server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8931". Use "127.0.0.1:0" for an
	// ephemeral port.
	Addr string

	// Name identifies this tap in logs and discovery.
	Name string
}

// Server mirrors the playback stream to websocket clients. It implements
// the backend's Sink: Feed never blocks the producer; frames are dropped
// when the tap cannot keep up.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
	clk        *clock.Clock

	clients   map[string]*client
	clientsMu sync.RWMutex

	frames  chan []int16
	dropped int64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// New creates a monitor server.
func New(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Diagnostic tap for trusted local networks.
				return true
			},
		},
		clk:      clock.New(),
		clients:  make(map[string]*client),
		frames:   make(chan []int16, 8),
		stopChan: make(chan struct{}),
	}
}

// Start begins listening and broadcasting.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("monitor listen: %w", err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/monitor", s.handleWebSocket)
	s.httpServer = &http.Server{Handler: mux}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.broadcastLoop()
	}()

	go func() {
		if err := s.httpServer.Serve(ln); err != http.ErrServerClosed {
			log.Printf("Monitor server error: %v", err)
		}
	}()

	log.Printf("Monitor tap %q listening on %s", s.cfg.Name, ln.Addr())

	return nil
}

// Addr returns the bound listen address. Only valid after Start.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Port returns the bound TCP port. Only valid after Start.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Feed mirrors one submitted buffer into the tap. It copies the samples and
// returns immediately; a full tap drops the frame rather than stalling the
// playback producer.
func (s *Server) Feed(samples []int16) {
	cp := make([]int16, len(samples))
	copy(cp, samples)

	select {
	case s.frames <- cp:
	default:
		s.clientsMu.Lock()
		s.dropped++
		s.clientsMu.Unlock()
	}
}

// Dropped returns the number of frames dropped because the tap was full.
func (s *Server) Dropped() int64 {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return s.dropped
}

// broadcastLoop encodes queued frames and fans them out to clients.
func (s *Server) broadcastLoop() {
	for {
		select {
		case samples := <-s.frames:
			msg := CreateFrame(s.clk.Micros(), samples)
			s.clientsMu.RLock()
			for _, c := range s.clients {
				select {
				case c.send <- msg:
				default:
					// Slow client; skip this frame for it.
				}
			}
			s.clientsMu.RUnlock()

		case <-s.stopChan:
			return
		}
	}
}

// CreateFrame builds a binary tap frame.
// Format: [message_type:1][timestamp:8][pcm_s16le:N].
func CreateFrame(timestamp int64, samples []int16) []byte {
	msg := make([]byte, 1+8+len(samples)*2)
	msg[0] = FrameMessageType
	binary.BigEndian.PutUint64(msg[1:9], uint64(timestamp))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(msg[9+i*2:], uint16(v))
	}
	return msg
}

// handleWebSocket upgrades a connection and streams frames to it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.stopChan:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Monitor upgrade error: %v", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 32),
	}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	log.Printf("Monitor client connected: %s (%s)", c.id, r.RemoteAddr)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(c)
	}()

	// Reader only watches for the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.removeClient(c)
}

func (s *Server) clientWriter(c *client) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}
		case <-s.stopChan:
			return
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.send)
	}
	s.clientsMu.Unlock()

	c.conn.Close()
	log.Printf("Monitor client disconnected: %s", c.id)
}

// Stop closes the listener and all client connections. Safe to call more
// than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)

		if s.httpServer != nil {
			s.httpServer.Close()
		}

		s.clientsMu.Lock()
		for id, c := range s.clients {
			delete(s.clients, id)
			close(c.send)
			c.conn.Close()
		}
		s.clientsMu.Unlock()

		s.wg.Wait()
		log.Printf("Monitor tap %q stopped", s.cfg.Name)
	})
}
