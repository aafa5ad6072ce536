package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/eva/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where Print writes. Tests replace it.
var Stdout io.Writer = os.Stdout

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use yaml or json)", s)
	}
}

// RunResult is the output of the `run` command.
type RunResult struct {
	OK         bool           `yaml:"ok"                   json:"ok"`
	Command    string         `yaml:"command"              json:"command"`
	Category   model.Category `yaml:"category,omitempty"   json:"category,omitempty"`
	Confidence int            `yaml:"confidence_pct"       json:"confidence_pct"`
	Message    string         `yaml:"message,omitempty"    json:"message,omitempty"`
	Error      string         `yaml:"error,omitempty"      json:"error,omitempty"`
	DurationMs int64          `yaml:"duration_ms"          json:"duration_ms"`
}

// Print serializes v to Stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return writeJSON(w, v, PrettyOutput)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to Stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	return writeJSON(Stdout, v, false)
}

// PrintYAML serializes v to Stdout as YAML.
func PrintYAML(v interface{}) error {
	return writeYAML(Stdout, v)
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// IsPiped reports whether stdout is redirected to a file or pipe.
func IsPiped() bool {
	return !term.IsTerminal(int(os.Stdout.Fd()))
}
