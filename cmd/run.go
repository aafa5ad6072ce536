package cmd

import (
	"errors"
	"math"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/store"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <command>",
	Short: "Classify, plan and execute a single command",
	Long: `Run one natural-language command through the full pipeline: classify it,
extract entities, generate a plan and execute it on the desktop.

Examples:
  eva run "open chrome"
  eva run "set volume to 40"
  eva run --classifier pattern "type hello world"
  eva run --dry-run "search for golang generics"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := a.pipeline.Execute(ctx, strings.Join(args, " "))
	if err := output.Print(runResult(e)); err != nil {
		return err
	}
	if !e.Success {
		return errors.New(e.Error)
	}
	return nil
}

func runResult(e store.Entry) output.RunResult {
	return output.RunResult{
		OK:         e.Success,
		Command:    e.Command,
		Category:   e.Category,
		Confidence: int(math.Round(e.Confidence * 100)),
		Message:    e.Message,
		Error:      e.Error,
		DurationMs: e.DurationMs,
	}
}
