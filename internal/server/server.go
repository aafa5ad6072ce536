// Package server exposes the pipeline over a websocket so a GUI front end can
// submit commands and receive results. Commands from every connection are
// executed by a single worker goroutine, in arrival order.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/pipeline"
	"github.com/mj1618/eva/internal/store"
)

// Message kinds.
const (
	KindRun      = "run"
	KindPlan     = "plan"
	KindClassify = "classify"
	KindHistory  = "history"

	KindQueued = "queued"
	KindResult = "result"
	KindError  = "error"
)

// Message is the envelope used in both directions.
type Message struct {
	ID      string            `json:"id,omitempty"`
	Kind    string            `json:"kind"`
	Command string            `json:"command,omitempty"`
	Limit   int               `json:"limit,omitempty"`
	Result  *model.Result     `json:"result,omitempty"`
	Preview *pipeline.Preview `json:"preview,omitempty"`
	History []store.Entry     `json:"history,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Backend is the part of the pipeline the server drives.
type Backend interface {
	ProcessAndExecute(ctx context.Context, raw string) model.Result
	Plan(ctx context.Context, raw string) (pipeline.Preview, error)
}

// History lists journaled commands.
type History interface {
	Recent(ctx context.Context, limit int) ([]store.Entry, error)
}

type Options struct {
	History History
	Logger  *slog.Logger
	// QueueSize bounds the number of pending commands.
	QueueSize int
}

type job struct {
	msg  Message
	out  chan<- Message
	done <-chan struct{}
}

type Server struct {
	backend  Backend
	history  History
	logger   *slog.Logger
	upgrader websocket.Upgrader
	jobs     chan job
}

func New(backend Backend, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 32
	}
	return &Server{
		backend: backend,
		history: opts.History,
		logger:  opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The front end is a local app, not a browser page.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		jobs: make(chan job, opts.QueueSize),
	}
}

// Work executes queued commands until ctx is done. Exactly one Work
// goroutine must run per Server.
func (s *Server) Work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			resp := s.handle(ctx, j.msg)
			select {
			case j.out <- resp:
			case <-j.done:
				s.logger.Debug("connection gone, dropping response", "id", j.msg.ID)
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, msg Message) Message {
	resp := Message{ID: msg.ID, Kind: KindResult}
	switch msg.Kind {
	case KindRun:
		res := s.backend.ProcessAndExecute(ctx, msg.Command)
		resp.Result = &res
	case KindPlan, KindClassify:
		pv, err := s.backend.Plan(ctx, msg.Command)
		if err != nil {
			return errorMessage(msg.ID, err)
		}
		if msg.Kind == KindClassify {
			pv.Plan = nil
		}
		resp.Preview = &pv
	case KindHistory:
		if s.history == nil {
			return errorMessage(msg.ID, errors.New("history is not enabled"))
		}
		entries, err := s.history.Recent(ctx, msg.Limit)
		if err != nil {
			return errorMessage(msg.ID, err)
		}
		resp.History = entries
	default:
		return errorMessage(msg.ID, fmt.Errorf("unknown message kind: %q", msg.Kind))
	}
	return resp
}

func errorMessage(id string, err error) Message {
	return Message{ID: id, Kind: KindError, Error: err.Error()}
}

// ServeHTTP upgrades the request and serves one websocket connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	log := s.logger.With("remote", conn.RemoteAddr().String())
	log.Info("front end connected")

	out := make(chan Message, 16)
	done := make(chan struct{})
	defer close(done)

	go s.write(conn, out, done, log)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if isClosed(err) {
				log.Info("front end disconnected")
			} else {
				log.Warn("websocket read failed", "err", err)
			}
			return
		}
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		msg.Command = strings.TrimSpace(msg.Command)
		if (msg.Kind == KindRun || msg.Kind == KindPlan || msg.Kind == KindClassify) && msg.Command == "" {
			out <- errorMessage(msg.ID, errors.New("command is required"))
			continue
		}

		// The ack goes out first so it always precedes the result.
		out <- Message{ID: msg.ID, Kind: KindQueued, Command: msg.Command}
		select {
		case s.jobs <- job{msg: msg, out: out, done: done}:
		default:
			out <- errorMessage(msg.ID, errors.New("busy: command queue is full"))
		}
	}
}

func (s *Server) write(conn *websocket.Conn, out <-chan Message, done <-chan struct{}, log *slog.Logger) {
	for {
		select {
		case m := <-out:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(m); err != nil {
				log.Warn("websocket write failed", "err", err)
				// Unblock the reader, then drain until it exits.
				conn.Close()
				for {
					select {
					case <-out:
					case <-done:
						return
					}
				}
			}
		case <-done:
			return
		}
	}
}

// ListenAndServe serves websocket connections on addr at /ws until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	go s.Work(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	s.logger.Info("websocket server listening", "addr", addr, "path", "/ws")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure)
}
