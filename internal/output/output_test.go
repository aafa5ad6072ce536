package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/eva/internal/model"
)

func capture(t *testing.T, format Format, pretty bool, v interface{}) string {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldFormat, oldPretty := Stdout, OutputFormat, PrettyOutput
	Stdout, OutputFormat, PrettyOutput = &buf, format, pretty
	defer func() { Stdout, OutputFormat, PrettyOutput = oldOut, oldFormat, oldPretty }()

	if err := Print(v); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPrintYAML(t *testing.T) {
	result := RunResult{
		OK:         true,
		Command:    "open chrome",
		Category:   model.CategoryOpenApp,
		Confidence: 100,
		Message:    "Executed 5 steps",
		DurationMs: 2600,
	}
	out := capture(t, FormatYAML, false, result)

	// YAML output should be multi-line
	if strings.Count(out, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", out)
	}
	var decoded RunResult
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded != result {
		t.Errorf("got %+v, want %+v", decoded, result)
	}
}

func TestPrintJSON_Compact(t *testing.T) {
	out := capture(t, FormatJSON, false, RunResult{Command: "type <b>", Error: "boom"})
	if strings.Count(out, "\n") != 1 {
		t.Errorf("compact JSON should be a single line, got:\n%s", out)
	}
	if !strings.Contains(out, "<b>") {
		t.Errorf("HTML should not be escaped: %s", out)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["message"]; ok {
		t.Error("empty message should be omitted")
	}
	if m["ok"] != false {
		t.Errorf("ok: got %v, want false", m["ok"])
	}
}

func TestPrintJSON_Pretty(t *testing.T) {
	out := capture(t, FormatJSON, true, map[string]int{"a": 1})
	if !strings.Contains(out, "\n  \"a\": 1") {
		t.Errorf("expected indented JSON, got:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"yaml", "json"} {
		if f, err := ParseFormat(s); err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml should be rejected")
	}
}
