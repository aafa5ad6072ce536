package ipc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func socketPath(t *testing.T) string {
	dir, err := os.MkdirTemp("", "eva")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func TestSendAndServe(t *testing.T) {
	path := socketPath(t)
	srv, err := Listen(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan ControlMessage, 1)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, func(m ControlMessage) { got <- m }) }()

	if err := Send(ctx, path, ControlMessage{Cmd: CmdSay, Text: "open chrome"}); err != nil {
		t.Fatal(err)
	}
	select {
	case m := <-got:
		if m.Cmd != CmdSay || m.Text != "open chrome" {
			t.Errorf("got %+v", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("socket not removed: %v", err)
	}
}

func TestSend_NoServer(t *testing.T) {
	if err := Send(context.Background(), socketPath(t), ControlMessage{Cmd: CmdTrigger}); err == nil {
		t.Error("expected a connection error")
	}
}
