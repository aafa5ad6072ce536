package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/pipeline"
	"github.com/mj1618/eva/internal/store"
)

type fakeBackend struct {
	mu       sync.Mutex
	commands []string
}

func (f *fakeBackend) ProcessAndExecute(_ context.Context, raw string) model.Result {
	f.mu.Lock()
	f.commands = append(f.commands, raw)
	f.mu.Unlock()
	if raw == "fail" {
		return model.Failf("primitive failed")
	}
	return model.OK("did " + raw)
}

func (f *fakeBackend) Plan(_ context.Context, raw string) (pipeline.Preview, error) {
	if raw == "??" {
		return pipeline.Preview{}, errors.New("no match")
	}
	return pipeline.Preview{
		Command:        raw,
		Classification: model.Classification{Category: model.CategoryOpenApp, Confidence: 1},
		Plan:           model.Plan{{ActionType: model.ActionPressKey, Params: model.Params{"key": "win"}}},
	}, nil
}

type fakeHistory struct{}

func (fakeHistory) Recent(context.Context, int) ([]store.Entry, error) {
	return []store.Entry{{ID: "1", Command: "open chrome", Success: true}}, nil
}

func dial(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Work(ctx)

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Message) Message {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatal(err)
		}
		if m.Kind != KindQueued {
			return m
		}
	}
}

func TestServer_Run(t *testing.T) {
	b := &fakeBackend{}
	conn := dial(t, New(b, Options{}))

	if err := conn.WriteJSON(Message{ID: "a", Kind: KindRun, Command: " open chrome "}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ack, res Message
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatal(err)
	}
	if ack.Kind != KindQueued || ack.ID != "a" || ack.Command != "open chrome" {
		t.Errorf("got ack %+v", ack)
	}
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatal(err)
	}
	if res.Kind != KindResult || res.ID != "a" || res.Result == nil || res.Result.Message != "did open chrome" {
		t.Errorf("got %+v", res)
	}
}

func TestServer_RunsInOrder(t *testing.T) {
	b := &fakeBackend{}
	conn := dial(t, New(b, Options{}))

	for _, c := range []string{"one", "fail", "three"} {
		m := roundTrip(t, conn, Message{Kind: KindRun, Command: c})
		if m.ID == "" {
			t.Error("server should assign an id")
		}
		if c == "fail" && (m.Result == nil || m.Result.Success) {
			t.Errorf("got %+v", m)
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if strings.Join(b.commands, ",") != "one,fail,three" {
		t.Errorf("got %v", b.commands)
	}
}

func TestServer_PlanAndClassify(t *testing.T) {
	conn := dial(t, New(&fakeBackend{}, Options{}))

	m := roundTrip(t, conn, Message{Kind: KindPlan, Command: "open chrome"})
	if m.Preview == nil || len(m.Preview.Plan) != 1 {
		t.Errorf("got %+v", m)
	}
	m = roundTrip(t, conn, Message{Kind: KindClassify, Command: "open chrome"})
	if m.Preview == nil || m.Preview.Plan != nil || m.Preview.Classification.Category != model.CategoryOpenApp {
		t.Errorf("got %+v", m)
	}
	m = roundTrip(t, conn, Message{Kind: KindPlan, Command: "??"})
	if m.Kind != KindError || m.Error != "no match" {
		t.Errorf("got %+v", m)
	}
}

func TestServer_Errors(t *testing.T) {
	conn := dial(t, New(&fakeBackend{}, Options{}))

	if err := conn.WriteJSON(Message{Kind: KindRun}); err != nil {
		t.Fatal(err)
	}
	var m Message
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	if m.Kind != KindError || m.Error != "command is required" {
		t.Errorf("got %+v", m)
	}

	m = roundTrip(t, conn, Message{Kind: "dance"})
	if m.Kind != KindError || !strings.Contains(m.Error, "unknown message kind") {
		t.Errorf("got %+v", m)
	}
	m = roundTrip(t, conn, Message{Kind: KindHistory})
	if m.Kind != KindError {
		t.Errorf("history without a journal: got %+v", m)
	}
}

func TestServer_History(t *testing.T) {
	conn := dial(t, New(&fakeBackend{}, Options{History: fakeHistory{}}))
	m := roundTrip(t, conn, Message{Kind: KindHistory, Limit: 5})
	if m.Kind != KindResult || len(m.History) != 1 || m.History[0].Command != "open chrome" {
		t.Errorf("got %+v", m)
	}
}
