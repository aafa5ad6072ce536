package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/eva/internal/ipc"
	"github.com/mj1618/eva/internal/model"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time           { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestManager_Timeout(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	m := NewManager(Options{Now: c.now})

	if m.Active() || m.Expired() || m.Remaining() != 0 {
		t.Fatal("new manager should be idle")
	}
	m.Start()
	c.advance(4 * time.Second)
	if got := m.Remaining(); got != 6*time.Second {
		t.Errorf("got remaining %v, want 6s", got)
	}
	m.Touch()
	c.advance(9 * time.Second)
	if m.Expired() {
		t.Error("touch should have refreshed activity")
	}
	c.advance(time.Second)
	if !m.Expired() {
		t.Error("session should expire after 10s of inactivity")
	}
	if m.Remaining() != 0 {
		t.Errorf("got remaining %v, want 0", m.Remaining())
	}
}

func TestManager_Record(t *testing.T) {
	m := NewManager(Options{})
	if err := m.Record("open chrome", model.OK("ok")); !errors.Is(err, ErrEnded) {
		t.Errorf("got %v, want ErrEnded", err)
	}
	m.Start()
	m.Record("open chrome", model.OK("ok"))
	m.Record("type hi", model.Failf("boom"))
	if got := m.Turns(); len(got) != 2 || got[1].Command != "type hi" || got[1].Result.Success {
		t.Errorf("got turns %+v", got)
	}
	if !m.End() || m.End() {
		t.Error("End should report the previous state")
	}
	m.Start()
	if len(m.Turns()) != 0 {
		t.Error("a new session starts without turns")
	}
}

func TestManager_Wake(t *testing.T) {
	m := NewManager(Options{})
	tests := []struct {
		in   string
		rest string
		ok   bool
	}{
		{"jarvis", "", true},
		{"Jarvis, open Chrome.", "open chrome", true},
		{"hey jarvis type hello", "type hello", true},
		{"open chrome", "", false},
		{"jarviss", "", false},
	}
	for _, tt := range tests {
		rest, ok := m.Wake(tt.in)
		if rest != tt.rest || ok != tt.ok {
			t.Errorf("Wake(%q) = %q, %v; want %q, %v", tt.in, rest, ok, tt.rest, tt.ok)
		}
	}

	custom := NewManager(Options{WakeWord: "hey computer"})
	if _, ok := custom.Wake("computer"); ok {
		t.Error("partial wake phrase should not match")
	}
	if rest, ok := custom.Wake("Hey computer, mute"); !ok || rest != "mute" {
		t.Errorf("got %q, %v", rest, ok)
	}
}

func TestManager_IsGoodbye(t *testing.T) {
	m := NewManager(Options{})
	for in, want := range map[string]bool{
		"goodbye jarvis":       true,
		"Goodbye, Jarvis!":     true,
		"ok goodbye jarvis":    true,
		"goodbye":              true,
		"bye":                  true,
		"type goodbye message": false,
		"jarvis":               false,
	} {
		if got := m.IsGoodbye(in); got != want {
			t.Errorf("IsGoodbye(%q) = %v, want %v", in, got, want)
		}
	}
}

// scriptSource returns its lines in order, then io.EOF.
type scriptSource struct {
	lines []string
}

func (s *scriptSource) Listen(context.Context) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

// chanSource returns whatever is sent on c; closing c means io.EOF.
type chanSource struct {
	c chan string
}

func (s *chanSource) Listen(ctx context.Context) (string, error) {
	select {
	case l, ok := <-s.c:
		if !ok {
			return "", io.EOF
		}
		return l, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type fakeExec struct {
	mu       sync.Mutex
	commands []string
	fail     bool
}

func (f *fakeExec) ProcessAndExecute(_ context.Context, raw string) model.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, raw)
	if f.fail {
		return model.Failf("primitive failed")
	}
	return model.OK("done")
}

func (f *fakeExec) got() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

type fakeSpeaker struct {
	said chan string
}

func newSpeaker() *fakeSpeaker { return &fakeSpeaker{said: make(chan string, 16)} }

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.said <- text
	return nil
}

func (f *fakeSpeaker) expect(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-f.said:
		if got != want {
			t.Errorf("said %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoop_WakeCommandGoodbye(t *testing.T) {
	exec := &fakeExec{}
	sp := newSpeaker()
	var results []string
	l := &Loop{
		Source:   &scriptSource{lines: []string{"open chrome", "jarvis", "open chrome", "", "goodbye jarvis", "type hi"}},
		Exec:     exec,
		Session:  NewManager(Options{}),
		Speaker:  sp,
		OnResult: func(cmd string, _ model.Result) { results = append(results, cmd) },
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := exec.got(); !equal(got, []string{"open chrome"}) {
		t.Errorf("executed %v, want [open chrome]", got)
	}
	if !equal(results, []string{"open chrome"}) {
		t.Errorf("results %v", results)
	}
	sp.expect(t, greeting)
	sp.expect(t, farewell)
	if l.Session.Active() {
		t.Error("session should be over")
	}
}

func TestLoop_InlineCommandAndFailures(t *testing.T) {
	exec := &fakeExec{fail: true}
	chimes := 0
	l := &Loop{
		Source:  &scriptSource{lines: []string{"Jarvis, open Chrome.", "set volume to 42", "jarvis", "mute"}},
		Exec:    exec,
		Session: NewManager(Options{}),
		Chime:   func() error { chimes++; return nil },
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"open chrome", "set volume to 42", "mute"}
	if got := exec.got(); !equal(got, want) {
		t.Errorf("executed %v, want %v", got, want)
	}
	if chimes != 1 {
		t.Errorf("got %d chimes, want 1", chimes)
	}
}

func TestLoop_Timeout(t *testing.T) {
	src := &chanSource{c: make(chan string)}
	exec := &fakeExec{}
	sp := newSpeaker()
	l := &Loop{
		Source:  src,
		Exec:    exec,
		Session: NewManager(Options{Timeout: 30 * time.Millisecond}),
		Speaker: sp,
	}
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	src.c <- "jarvis"
	sp.expect(t, greeting)
	sp.expect(t, timeoutLine)

	// Back to idle: commands without the wake word are ignored.
	src.c <- "open chrome"
	close(src.c)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := exec.got(); len(got) != 0 {
		t.Errorf("executed %v after timeout", got)
	}
}

func TestLoop_Control(t *testing.T) {
	src := &chanSource{c: make(chan string)}
	ctrl := make(chan ipc.ControlMessage)
	exec := &fakeExec{}
	sp := newSpeaker()
	l := &Loop{
		Source:  src,
		Exec:    exec,
		Session: NewManager(Options{Timeout: time.Minute}),
		Speaker: sp,
		Control: ctrl,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	ctrl <- ipc.ControlMessage{Cmd: ipc.CmdTrigger}
	sp.expect(t, greeting)
	ctrl <- ipc.ControlMessage{Cmd: ipc.CmdSay, Text: "type hello"}
	ctrl <- ipc.ControlMessage{Cmd: ipc.CmdEnd}
	sp.expect(t, farewell)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if got := exec.got(); !equal(got, []string{"type hello"}) {
		t.Errorf("executed %v", got)
	}
}
