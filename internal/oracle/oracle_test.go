package oracle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"id": 3, "reason": "match"}`, `{"id": 3, "reason": "match"}`},
		{"prose around", `Sure! Here you go: {"id": 1} hope that helps`, `{"id": 1}`},
		{"json fence", "```json\n{\"x\": 10, \"y\": 20}\n```", `{"x": 10, "y": 20}`},
		{"plain fence", "```\n{\"id\": -1, \"reason\": \"No confident match\"}\n```", `{"id": -1, "reason": "No confident match"}`},
		{"nested", `result: {"a": {"b": 1}, "c": 2} trailing }`, `{"a": {"b": 1}, "c": 2}`},
		{"brace in string", `{"reason": "label was {Send}", "id": 4}`, `{"reason": "label was {Send}", "id": 4}`},
		{"escaped quote", `{"reason": "say \"hi}\"", "id": 2}`, `{"reason": "say \"hi}\"", "id": 2}`},
		{"first of two", `{"id": 1} {"id": 2}`, `{"id": 1}`},
		{"skips invalid candidate", `{not json} then {"id": 7}`, `{"id": 7}`},
		{"skips unbalanced prefix", `{ "oops" {"id": 9}`, `{"id": 9}`},
	}
	for _, tt := range tests {
		got, err := ExtractJSON(tt.in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestExtractJSON_None(t *testing.T) {
	for _, in := range []string{"", "no json here", "{unterminated", "}{"} {
		if _, err := ExtractJSON(in); !errors.Is(err, ErrNoJSON) {
			t.Errorf("ExtractJSON(%q) err = %v, want ErrNoJSON", in, err)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	}
	err := DecodeJSON("The answer:\n```json\n{\"category\": \"APP_LAUNCH\", \"confidence\": 0.95}\n```", &out)
	if err != nil {
		t.Fatal(err)
	}
	if out.Category != "APP_LAUNCH" || out.Confidence != 0.95 {
		t.Errorf("got %+v", out)
	}

	var wrongType struct {
		ID int `json:"id"`
	}
	if err := DecodeJSON(`{"id": "three"}`, &wrongType); err == nil {
		t.Error("expected a type error")
	}
}

func TestIsQuota(t *testing.T) {
	if !IsQuota(errors.New("POST /v1/chat: 429 Too Many Requests")) {
		t.Error("429 should be quota")
	}
	if !IsQuota(fmt.Errorf("wrapped: %w", errors.New("You exceeded your current quota"))) {
		t.Error("quota message should be quota")
	}
	if IsQuota(errors.New("connection refused")) || IsQuota(nil) {
		t.Error("unrelated errors should not be quota")
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(fmt.Errorf("chat completion: %w", context.DeadlineExceeded)) {
		t.Error("deadline exceeded should be a timeout")
	}
	if IsTimeout(errors.New("boom")) {
		t.Error("plain error is not a timeout")
	}
}

func TestNew_Backends(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("empty backend should fail")
	}
	if _, err := New(Options{Backend: "gemini"}); err == nil {
		t.Error("unknown backend should fail")
	}
	if _, err := New(Options{Backend: "openai"}); err == nil {
		t.Error("openai without key should fail")
	}
	c, err := New(Options{Backend: "openai", APIKey: "sk-test", Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*OpenAI); !ok {
		t.Errorf("got %T, want *OpenAI", c)
	}
	if _, err := New(Options{Backend: "langchain-openai"}); err == nil {
		t.Error("langchain-openai without key should fail")
	}
}

func TestCompleterFunc(t *testing.T) {
	var got Request
	c := CompleterFunc(func(_ context.Context, req Request) (string, error) {
		got = req
		return "ok", nil
	})
	out, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	if err != nil || out != "ok" || got.Prompt != "hi" {
		t.Errorf("got %q, %v, %+v", out, err, got)
	}
}

func TestNewSocksClient(t *testing.T) {
	c, err := NewSocksClient("127.0.0.1:1080", 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Timeout != 120*time.Second {
		t.Errorf("timeout = %v, want 120s", c.Timeout)
	}
}
