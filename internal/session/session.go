// Package session tracks the wake-word conversation: a wake phrase opens a
// session, each command keeps it alive, and it ends on the goodbye phrase or
// after a period of inactivity.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mj1618/eva/internal/model"
)

// ErrEnded is returned by operations that need an active session.
var ErrEnded = errors.New("session ended")

const (
	DefaultWakeWord      = "jarvis"
	DefaultGoodbyePhrase = "goodbye jarvis"
	DefaultTimeout       = 10 * time.Second
)

// Turn is one executed command.
type Turn struct {
	Command string
	Result  model.Result
	At      time.Time
}

type Options struct {
	WakeWord      string
	GoodbyePhrase string
	Timeout       time.Duration
	// Now replaces the clock in tests.
	Now func() time.Time
}

// Manager holds the state of the current session. It is safe for concurrent
// use.
type Manager struct {
	mu      sync.Mutex
	wake    []string
	goodbye []string
	timeout time.Duration
	now     func() time.Time

	active  bool
	started time.Time
	last    time.Time
	turns   []Turn
}

func NewManager(opts Options) *Manager {
	if opts.WakeWord == "" {
		opts.WakeWord = DefaultWakeWord
	}
	if opts.GoodbyePhrase == "" {
		opts.GoodbyePhrase = DefaultGoodbyePhrase
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		wake:    words(opts.WakeWord),
		goodbye: words(opts.GoodbyePhrase),
		timeout: opts.Timeout,
		now:     opts.Now,
	}
}

// Start opens a new session, discarding the previous session's turns.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = true
	m.started = m.now()
	m.last = m.started
	m.turns = nil
}

// End closes the session. It reports whether a session was active.
func (m *Manager) End() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	was := m.active
	m.active = false
	return was
}

func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Touch refreshes the activity timestamp.
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active {
		m.last = m.now()
	}
}

// Remaining is the time left before the session times out. It is zero when
// no session is active.
func (m *Manager) Remaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return 0
	}
	return max(m.timeout-m.now().Sub(m.last), 0)
}

// Expired reports whether the active session has been idle for the timeout.
func (m *Manager) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active && m.now().Sub(m.last) >= m.timeout
}

// Record appends a turn and refreshes activity.
func (m *Manager) Record(command string, res model.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return ErrEnded
	}
	m.last = m.now()
	m.turns = append(m.turns, Turn{Command: command, Result: res, At: m.last})
	return nil
}

// Turns returns a copy of the current session's turns.
func (m *Manager) Turns() []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Turn(nil), m.turns...)
}

// Wake reports whether text contains the wake phrase and returns whatever
// follows it, so "Jarvis, open Chrome" yields "open chrome".
func (m *Manager) Wake(text string) (rest string, ok bool) {
	w := words(text)
	i := find(w, m.wake)
	if i < 0 {
		return "", false
	}
	return strings.Join(w[i+len(m.wake):], " "), true
}

// IsGoodbye reports whether text ends the session.
func (m *Manager) IsGoodbye(text string) bool {
	w := words(text)
	if find(w, m.goodbye) >= 0 {
		return true
	}
	return len(w) == 1 && (w[0] == "goodbye" || w[0] == "bye")
}

// words lowercases s and splits it on anything that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func find(haystack, needle []string) int {
	if len(needle) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, n := range needle {
			if haystack[i+j] != n {
				continue outer
			}
		}
		return i
	}
	return -1
}
