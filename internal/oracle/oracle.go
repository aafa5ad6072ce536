// Package oracle wraps the LLM backends used as classification and vision
// oracles behind a single Completer interface.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
)

// Request is a single prompt round-trip.
type Request struct {
	System      string
	Prompt      string
	Image       []byte // optional PNG
	ImageMIME   string // defaults to image/png
	Temperature float64
}

// Completer sends a prompt to a model and returns its text response.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options configures a backend.
type Options struct {
	Backend string // openai, ollama, langchain-openai
	Model   string
	BaseURL string
	APIKey  string
	// HTTPClient is used for outbound requests when set (e.g. a SOCKS client).
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New builds the Completer for opts.Backend.
func New(opts Options) (Completer, error) {
	switch strings.ToLower(opts.Backend) {
	case "openai":
		return NewOpenAI(opts)
	case "ollama", "langchain-openai":
		return NewLangchain(opts)
	case "":
		return nil, errors.New("oracle backend not configured")
	default:
		return nil, fmt.Errorf("unsupported oracle backend: %s (use openai, ollama, or langchain-openai)", opts.Backend)
	}
}

// IsQuota reports whether err is a rate-limit or quota rejection.
func IsQuota(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func mimeOf(req Request) string {
	if req.ImageMIME != "" {
		return req.ImageMIME
	}
	return "image/png"
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
