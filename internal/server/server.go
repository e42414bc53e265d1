package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Gumball-code/ggpoker/internal/table"
)

// Server accepts WebSocket clients and fans table state out to them. The
// table serializes all mutations; the server's only shared state is the
// connection set.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	table    *table.Table
	logger   *log.Logger

	mu          sync.RWMutex
	connections map[*Connection]struct{}

	nextClient atomic.Uint64
	httpServer *http.Server
}

// NewServer creates a server for the given table.
func NewServer(addr string, tbl *table.Table, logger *log.Logger) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Single shared table behind no auth; origin checking adds
				// nothing here.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		table:       tbl,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]struct{}),
	}
	tbl.SetNotify(s.broadcastState)
	return s
}

// Handler returns the HTTP handler. Tests mount it on an ephemeral
// listener instead of calling Start.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start runs the HTTP listener until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	s.logger.Info("starting websocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the listener down and closes every connection.
func (s *Server) Stop() error {
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	clientID := fmt.Sprintf("c%d", s.nextClient.Add(1))
	client := NewConnection(conn, clientID, s, s.logger)

	s.mu.Lock()
	s.connections[client] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("client connected", "client", clientID, "total", total)

	client.Start()

	if msg, err := NewMessage(MessageTypeWelcome, WelcomeData{ClientID: clientID}); err == nil {
		_ = client.SendMessage(msg)
	}
	s.sendState(client)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// disconnected is called from a connection's read pump when it dies. The
// disconnect is handled as a regular serialized table command.
func (s *Server) disconnected(conn *Connection) {
	s.mu.Lock()
	_, known := s.connections[conn]
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	if !known {
		return
	}
	s.logger.Info("client disconnected", "client", conn.ClientID(), "total", total)
	s.table.Disconnect(conn.ClientID())
}

// broadcastState projects the snapshot per viewer and fans it out. Runs
// outside the table lock.
func (s *Server) broadcastState(snap *table.Snapshot) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		msg, err := NewMessage(MessageTypeState, snap.ViewFor(conn.ClientID()))
		if err != nil {
			s.logger.Error("failed to build state message", "error", err)
			continue
		}
		_ = conn.SendMessage(msg)
	}
}

// sendState pushes the current state to a single client.
func (s *Server) sendState(conn *Connection) {
	snap := s.table.Snapshot()
	msg, err := NewMessage(MessageTypeState, snap.ViewFor(conn.ClientID()))
	if err != nil {
		s.logger.Error("failed to build state message", "error", err)
		return
	}
	_ = conn.SendMessage(msg)
}
