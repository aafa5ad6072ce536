package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mj1618/eva/internal/ipc"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/speech"
)

const (
	greeting    = "Hey, how can I help you?"
	timeoutLine = "Session timeout"
	farewell    = "Goodbye! Have a great day."
)

// Executor runs one command.
type Executor interface {
	ProcessAndExecute(ctx context.Context, raw string) model.Result
}

// Loop is the idle/active state machine driven by a transcript source.
type Loop struct {
	Source  speech.Source
	Exec    Executor
	Session *Manager

	// Optional.
	Speaker  speech.Speaker
	Control  <-chan ipc.ControlMessage
	Chime    func() error
	OnResult func(command string, res model.Result)
	Logger   *slog.Logger
	// ErrorBackoff is the pause after a failed Listen.
	ErrorBackoff time.Duration
}

type transcript struct {
	text string
	err  error
}

// Run processes transcripts until the source is exhausted or ctx is done. A
// failed command never stops the loop. Exhausting the source returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if l.Logger == nil {
		l.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan transcript)
	go l.read(ctx, lines)

	l.Logger.Info("listening for wake word")
	for {
		var (
			timer   *time.Timer
			timeout <-chan time.Time
		)
		if l.Session.Active() {
			timer = time.NewTimer(l.Session.Remaining())
			timeout = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return ctx.Err()
		case <-timeout:
			l.end(ctx, "timeout", timeoutLine)
		case msg, ok := <-l.Control:
			if !ok {
				l.Control = nil
				break
			}
			l.control(ctx, msg)
		case t := <-lines:
			if t.err != nil {
				stopTimer(timer)
				if errors.Is(t.err, io.EOF) {
					l.Session.End()
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.Logger.Warn("listen failed", "err", t.err)
				break
			}
			l.hear(ctx, t.text)
		}
		stopTimer(timer)
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

func (l *Loop) read(ctx context.Context, out chan<- transcript) {
	backoff := l.ErrorBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	for {
		text, err := l.Source.Listen(ctx)
		select {
		case out <- transcript{text: text, err: err}:
		case <-ctx.Done():
			return
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) hear(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if !l.Session.Active() {
		rest, ok := l.Session.Wake(text)
		if !ok {
			l.Logger.Debug("ignored while idle", "text", text)
			return
		}
		l.wake(ctx)
		if rest != "" {
			l.command(ctx, rest)
		}
		return
	}

	l.Logger.Info("heard", "text", text)
	if l.Session.IsGoodbye(text) {
		l.end(ctx, "goodbye", farewell)
		return
	}
	if rest, ok := l.Session.Wake(text); ok {
		if rest == "" {
			l.Session.Touch()
			return
		}
		text = rest
	}
	l.command(ctx, text)
}

func (l *Loop) control(ctx context.Context, msg ipc.ControlMessage) {
	l.Logger.Debug("control message", "cmd", msg.Cmd)
	switch msg.Cmd {
	case ipc.CmdTrigger:
		if l.Session.Active() {
			l.Session.Touch()
			return
		}
		l.wake(ctx)
	case ipc.CmdSay:
		if !l.Session.Active() {
			l.wake(ctx)
		}
		if msg.Text != "" {
			l.command(ctx, msg.Text)
		}
	case ipc.CmdEnd:
		if l.Session.Active() {
			l.end(ctx, "control", farewell)
		}
	default:
		l.Logger.Warn("unknown control command", "cmd", msg.Cmd)
	}
}

func (l *Loop) wake(ctx context.Context) {
	l.Logger.Info("wake word detected, session started")
	l.Session.Start()
	if l.Chime != nil {
		if err := l.Chime(); err != nil {
			l.Logger.Debug("chime failed", "err", err)
		}
	}
	l.say(ctx, greeting)
}

func (l *Loop) end(ctx context.Context, reason, line string) {
	if !l.Session.End() {
		return
	}
	l.Logger.Info("session ended", "reason", reason)
	l.say(ctx, line)
}

func (l *Loop) command(ctx context.Context, text string) {
	l.Session.Touch()
	res := l.Exec.ProcessAndExecute(ctx, text)
	if err := l.Session.Record(text, res); err != nil {
		l.Logger.Debug("turn not recorded", "err", err)
	}
	if res.Success {
		l.Logger.Info("command succeeded", "command", text, "message", res.Message)
	} else {
		l.Logger.Warn("command failed", "command", text, "err", res.Error)
	}
	if l.OnResult != nil {
		l.OnResult(text, res)
	}
}

func (l *Loop) say(ctx context.Context, text string) {
	if l.Speaker == nil {
		return
	}
	if err := l.Speaker.Speak(ctx, text); err != nil {
		l.Logger.Warn("speak failed", "err", err)
	}
}
