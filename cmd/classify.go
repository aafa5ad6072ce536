package cmd

import (
	"strings"

	"github.com/mj1618/eva/internal/output"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <command>",
	Short: "Print the intent classification of a command",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	classifier, err := buildClassifier(cfg, logger)
	if err != nil {
		return err
	}
	cls, err := classifier.Classify(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return output.Print(cls)
}
