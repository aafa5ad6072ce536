package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{
		"run", "plan", "classify", "do", "screenshot", "click", "type",
		"focus", "serve", "listen", "trigger", "history",
	}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"format", "pretty", "config", "env", "log-level", "classifier", "dry-run"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestListenCommand_SessionFlags(t *testing.T) {
	for _, name := range []string{"wake-word", "goodbye", "session-timeout", "source", "no-speak"} {
		if listenCmd.Flags().Lookup(name) == nil {
			t.Errorf("listen is missing --%s", name)
		}
	}
}
