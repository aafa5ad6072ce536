package cmd

import (
	"strings"

	"github.com/mj1618/eva/internal/output"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <command>",
	Short: "Show how a command would be executed, without executing it",
	Long: `Classify a command, extract its entities and generate its plan. Nothing is
executed on the desktop and nothing is journaled.

Examples:
  eva plan "open youtube.com"
  eva plan --classifier pattern "send whatsapp to mom saying hi" --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	preview, err := a.pipeline.Plan(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return output.Print(preview)
}
