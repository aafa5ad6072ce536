// Package config loads eva's settings from a YAML file, an optional .env
// file, environment variables and command-line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/eva/internal/policy"
)

// Config is the full application configuration.
type Config struct {
	LogLevel   string `yaml:"log_level"`
	Classifier string `yaml:"classifier"` // pattern or semantic

	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	TypeDelayMs         int     `yaml:"type_delay_ms"`

	Oracle  OracleConfig  `yaml:"oracle"`
	Vision  VisionConfig  `yaml:"vision"`
	Session SessionConfig `yaml:"session"`
	Speech  SpeechConfig  `yaml:"speech"`
	Server  ServerConfig  `yaml:"server"`

	Journal string       `yaml:"journal"`
	Socket  string       `yaml:"socket"`
	Policy  policy.Rules `yaml:"policy"`
}

// OracleConfig selects the LLM used by the semantic classifier.
type OracleConfig struct {
	Backend string        `yaml:"backend"` // openai, ollama, langchain-openai
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Proxy   string        `yaml:"proxy"` // SOCKS5 address, empty for direct
	Timeout time.Duration `yaml:"timeout"`
}

// VisionConfig configures vision-assisted clicks. Empty oracle fields inherit
// from Config.Oracle.
type VisionConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Mode        string        `yaml:"mode"` // select or filter
	Backend     string        `yaml:"backend"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxElements int           `yaml:"max_elements"`
	MaxWidth    int           `yaml:"max_width"`
	ArchiveDir  string        `yaml:"archive_dir"`
	Keep        int           `yaml:"keep"`
}

type SessionConfig struct {
	WakeWord      string        `yaml:"wake_word"`
	GoodbyePhrase string        `yaml:"goodbye_phrase"`
	Timeout       time.Duration `yaml:"timeout"`
	Speak         bool          `yaml:"speak"`
}

// SpeechConfig is used by the voice source.
type SpeechConfig struct {
	Source        string        `yaml:"source"` // stdin or voice
	WhisperModel  string        `yaml:"whisper_model"`
	Language      string        `yaml:"language"`
	SampleRate    int           `yaml:"sample_rate"`
	MaxRecord     time.Duration `yaml:"max_record"`
	SilenceCutoff time.Duration `yaml:"silence_cutoff"`
}

type ServerConfig struct {
	Transport string `yaml:"transport"` // stdio, streamable-http, websocket
	Port      int    `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	data := DataDir()
	return Config{
		LogLevel:            "info",
		Classifier:          "semantic",
		ConfidenceThreshold: 0.6,
		TypeDelayMs:         12,
		Oracle: OracleConfig{
			Backend: "ollama",
			Model:   "mistral",
			BaseURL: "http://localhost:11434",
			Timeout: 30 * time.Second,
		},
		Vision: VisionConfig{
			Mode:        "select",
			Backend:     "openai",
			Model:       "gpt-4o-mini",
			Timeout:     30 * time.Second,
			MaxElements: 30,
			MaxWidth:    1280,
			ArchiveDir:  filepath.Join(data, "screenshots"),
			Keep:        10,
		},
		Session: SessionConfig{
			WakeWord:      "jarvis",
			GoodbyePhrase: "goodbye jarvis",
			Timeout:       10 * time.Second,
			Speak:         true,
		},
		Speech: SpeechConfig{
			Source:        "stdin",
			WhisperModel:  filepath.Join(data, "models", "ggml-base.en.bin"),
			Language:      "en",
			SampleRate:    16000,
			MaxRecord:     5 * time.Second,
			SilenceCutoff: 1200 * time.Millisecond,
		},
		Server: ServerConfig{
			Transport: "stdio",
			Port:      8092,
		},
		Journal: filepath.Join(data, "journal.db"),
		Socket:  filepath.Join(os.TempDir(), "eva.sock"),
	}
}

// DefaultPath is $XDG_CONFIG_HOME/eva/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "eva.yaml"
	}
	return filepath.Join(dir, "eva", "config.yaml")
}

// DataDir is $XDG_DATA_HOME/eva, falling back to ~/.local/share/eva.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "eva")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "eva")
	}
	return filepath.Join(home, ".local", "share", "eva")
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("OPENAI_API_KEY"); v != "" && c.Oracle.APIKey == "" {
		c.Oracle.APIKey = v
	}
	if v := getenv("EVA_CLASSIFIER"); v != "" {
		c.Classifier = v
	}
	if v := getenv("EVA_OLLAMA_URL"); v != "" {
		c.Oracle.BaseURL = v
	}
	if v := getenv("EVA_PROXY"); v != "" {
		c.Oracle.Proxy = v
	}
	if v := getenv("EVA_JOURNAL"); v != "" {
		c.Journal = v
	}
	if v := getenv("EVA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// VisionOracle returns the oracle settings for the vision detector.
func (c Config) VisionOracle() OracleConfig {
	o := c.Oracle
	if c.Vision.Backend != "" && !strings.EqualFold(c.Vision.Backend, o.Backend) {
		o.Backend = c.Vision.Backend
		o.BaseURL = ""
	}
	if c.Vision.Model != "" {
		o.Model = c.Vision.Model
	}
	if c.Vision.BaseURL != "" {
		o.BaseURL = c.Vision.BaseURL
	}
	if c.Vision.Timeout > 0 {
		o.Timeout = c.Vision.Timeout
	}
	return o
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if !oneOf(c.Classifier, "pattern", "semantic") {
		return fmt.Errorf("classifier: must be pattern or semantic, got %q", c.Classifier)
	}
	if c.Classifier == "semantic" && !oneOf(c.Oracle.Backend, "openai", "ollama", "langchain-openai") {
		return fmt.Errorf("oracle.backend: unsupported backend %q", c.Oracle.Backend)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold: must be within [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.TypeDelayMs < 0 {
		return errors.New("type_delay_ms: must not be negative")
	}
	if c.Vision.Enabled {
		if !oneOf(c.Vision.Mode, "select", "filter") {
			return fmt.Errorf("vision.mode: must be select or filter, got %q", c.Vision.Mode)
		}
		if c.Vision.MaxElements <= 0 {
			return errors.New("vision.max_elements: must be positive")
		}
	}
	if c.Vision.Keep < 0 {
		return errors.New("vision.keep: must not be negative")
	}
	if strings.TrimSpace(c.Session.WakeWord) == "" {
		return errors.New("session.wake_word: must not be empty")
	}
	if c.Session.Timeout <= 0 {
		return errors.New("session.timeout: must be positive")
	}
	if !oneOf(c.Speech.Source, "stdin", "voice") {
		return fmt.Errorf("speech.source: must be stdin or voice, got %q", c.Speech.Source)
	}
	if !oneOf(c.Server.Transport, "stdio", "streamable-http", "websocket") {
		return fmt.Errorf("server.transport: unsupported transport %q", c.Server.Transport)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: out of range: %d", c.Server.Port)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
