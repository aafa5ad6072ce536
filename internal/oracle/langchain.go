package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// Langchain is a Completer backed by any langchaingo model. It serves local
// Ollama models and OpenAI-compatible endpoints such as OpenRouter.
type Langchain struct {
	model   llms.Model
	timeout time.Duration
}

// NewLangchain creates a langchaingo completer for the "ollama" or
// "langchain-openai" backend.
func NewLangchain(opts Options) (*Langchain, error) {
	var (
		model llms.Model
		err   error
	)
	switch strings.ToLower(opts.Backend) {
	case "ollama":
		name := opts.Model
		if name == "" {
			name = "mistral"
		}
		o := []ollama.Option{ollama.WithModel(name)}
		if opts.BaseURL != "" {
			o = append(o, ollama.WithServerURL(opts.BaseURL))
		}
		if opts.HTTPClient != nil {
			o = append(o, ollama.WithHTTPClient(opts.HTTPClient))
		}
		model, err = ollama.New(o...)
	case "langchain-openai":
		if opts.APIKey == "" {
			return nil, errors.New("api key required for langchain-openai backend")
		}
		o := []lcopenai.Option{
			lcopenai.WithToken(opts.APIKey),
		}
		if opts.Model != "" {
			o = append(o, lcopenai.WithModel(opts.Model))
		}
		if opts.BaseURL != "" {
			o = append(o, lcopenai.WithBaseURL(opts.BaseURL))
		}
		if opts.HTTPClient != nil {
			o = append(o, lcopenai.WithHTTPClient(opts.HTTPClient))
		}
		model, err = lcopenai.New(o...)
	default:
		return nil, fmt.Errorf("unsupported langchain backend: %s", opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s model: %w", opts.Backend, err)
	}
	return &Langchain{model: model, timeout: opts.Timeout}, nil
}

// Complete implements Completer.
func (l *Langchain) Complete(ctx context.Context, req Request) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}
	parts := []llms.ContentPart{llms.TextPart(req.Prompt)}
	if len(req.Image) > 0 {
		parts = append(parts, llms.BinaryPart(mimeOf(req), req.Image))
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: parts,
	})

	var callOpts []llms.CallOption
	if req.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(req.Temperature))
	}

	resp, err := l.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Content, nil
}
