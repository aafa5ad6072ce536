package cmd

import (
	"fmt"
	"strings"

	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/platform"
	"github.com/spf13/cobra"
)

// TypeResult is the YAML output of a successful type command.
type TypeResult struct {
	OK     bool   `yaml:"ok"             json:"ok"`
	Action string `yaml:"action"         json:"action"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
	Key    string `yaml:"key,omitempty"  json:"key,omitempty"`
}

var typeCmd = &cobra.Command{
	Use:   "type [text...]",
	Short: "Type text or press key combinations",
	Long: `Type text into the focused window, press a key combination, or both.
When both are given the text is typed first, so --key enter submits it.

Examples:
  eva type hello world
  eva type --key ctrl+l
  eva type "golang generics" --key enter`,
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().String("text", "", "Text to type (alternative to positional args)")
	typeCmd.Flags().String("key", "", "Key combination (e.g. \"ctrl+c\", \"ctrl+shift+t\", \"enter\", \"win\")")
	typeCmd.Flags().Int("delay", -1, "Delay between keystrokes in ms (default from config)")
}

func runType(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	key, _ := cmd.Flags().GetString("key")
	delayMs, _ := cmd.Flags().GetInt("delay")
	if delayMs < 0 {
		delayMs = cfg.TypeDelayMs
	}
	if len(args) > 0 {
		text = strings.Join(args, " ")
	}

	provider, err := desktop()
	if err != nil {
		return err
	}
	result, err := typeAndPress(provider.Inputter, text, key, delayMs)
	if err != nil {
		return err
	}
	return output.Print(result)
}

// typeAndPress types text and then presses key. Either may be empty, not both.
func typeAndPress(in platform.Inputter, text, key string, delayMs int) (TypeResult, error) {
	if text == "" && key == "" {
		return TypeResult{}, fmt.Errorf("specify text, --text or --key")
	}
	if in == nil {
		return TypeResult{}, fmt.Errorf("input simulation not available on this platform")
	}
	var keys []string
	if key != "" {
		if keys = platform.SplitCombo(key); len(keys) == 0 {
			return TypeResult{}, fmt.Errorf("invalid key combination %q", key)
		}
	}

	result := TypeResult{OK: true, Text: text, Key: key}
	if text != "" {
		if err := in.TypeText(text, delayMs); err != nil {
			return TypeResult{}, err
		}
		result.Action = "type"
	}
	if keys != nil {
		if err := in.KeyCombo(keys); err != nil {
			return TypeResult{}, err
		}
		if result.Action == "" {
			result.Action = "key"
		} else {
			result.Action = "type+key"
		}
	}
	return result, nil
}
