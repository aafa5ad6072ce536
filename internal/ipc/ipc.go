// Package ipc is a small unix-socket control channel used by `eva trigger`
// to wake a running `eva listen`.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"
)

// ControlMessage is one request on the control socket.
type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

const (
	CmdTrigger = "trigger" // start a session without the wake word
	CmdSay     = "say"     // run Text as a command inside a session
	CmdEnd     = "end"     // end the active session
)

// Server accepts control messages on a unix socket.
type Server struct {
	ln     net.Listener
	path   string
	logger *slog.Logger
}

// Listen binds path, removing a stale socket first.
func Listen(path string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return &Server{ln: ln, path: path, logger: logger}, nil
}

func (s *Server) Path() string { return s.path }

// Serve calls handler for every message until ctx is done.
func (s *Server) Serve(ctx context.Context, handler func(ControlMessage)) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				os.Remove(s.path)
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Warn("control socket accept failed", "err", err)
			continue
		}
		go s.handleConn(conn, handler)
	}
}

func (s *Server) Close() error {
	err := s.ln.Close()
	os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		s.logger.Debug("bad control message", "err", err)
		return
	}
	handler(msg)
}

// Send delivers one message to the server at path.
func Send(ctx context.Context, path string, msg ControlMessage) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("connect to %s (is `eva listen` running?): %w", path, err)
	}
	defer conn.Close()
	return json.NewEncoder(conn).Encode(msg)
}
