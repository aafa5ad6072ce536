// Package speech provides transcript sources and spoken feedback.
package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// ErrNoVoice is returned when the binary was built without the voice tag.
var ErrNoVoice = errors.New("eva was built without voice support; rebuild with -tags voice")

// Source yields one transcript per call. An empty string means silence.
// io.EOF means the source is exhausted.
type Source interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker says text out loud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// LineSource reads one transcript per line, e.g. from stdin.
type LineSource struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

func (s *LineSource) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

// Espeak speaks through the espeak-ng or espeak command.
type Espeak struct {
	bin   string
	voice string
}

// NewEspeak finds espeak-ng or espeak on PATH.
func NewEspeak(voice string) (*Espeak, error) {
	for _, name := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(name); err == nil {
			return &Espeak{bin: path, voice: voice}, nil
		}
	}
	return nil, errors.New("espeak-ng or espeak not found on PATH")
}

func (e *Espeak) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	args := []string{}
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	args = append(args, "--", text)
	out, err := exec.CommandContext(ctx, e.bin, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// LogSpeaker logs instead of speaking.
type LogSpeaker struct {
	Logger *slog.Logger
}

func (l LogSpeaker) Speak(_ context.Context, text string) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("eva says", "text", text)
	return nil
}

// DefaultSpeaker returns espeak when installed, otherwise a LogSpeaker.
func DefaultSpeaker(logger *slog.Logger) Speaker {
	if sp, err := NewEspeak(""); err == nil {
		return sp
	}
	if logger != nil {
		logger.Debug("espeak not installed, spoken feedback goes to the log")
	}
	return LogSpeaker{Logger: logger}
}

// VoiceOptions configures the microphone source.
type VoiceOptions struct {
	ModelPath  string
	Language   string
	SampleRate int
	Segmenter  Segmenter
	Logger     *slog.Logger
}
