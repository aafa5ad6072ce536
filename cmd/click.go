package cmd

import (
	"fmt"

	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/platform"
	"github.com/spf13/cobra"
)

// ClickResult is the YAML output of a successful click.
type ClickResult struct {
	OK     bool   `yaml:"ok"          json:"ok"`
	Action string `yaml:"action"      json:"action"`
	X      int    `yaml:"x,omitempty" json:"x,omitempty"`
	Y      int    `yaml:"y,omitempty" json:"y,omitempty"`
	Button string `yaml:"button"      json:"button"`
	Count  int    `yaml:"count"       json:"count"`
}

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click at screen coordinates or at the cursor",
	Long:  "Click at absolute screen coordinates. Without --x and --y the click happens at the current cursor position.",
	RunE:  runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().Int("x", 0, "Click at absolute X screen coordinate")
	clickCmd.Flags().Int("y", 0, "Click at absolute Y screen coordinate")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Bool("double", false, "Double-click")
}

func runClick(cmd *cobra.Command, args []string) error {
	provider, err := desktop()
	if err != nil {
		return err
	}
	if provider.Inputter == nil {
		return fmt.Errorf("input simulation not available on this platform")
	}

	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	buttonName, _ := cmd.Flags().GetString("button")
	double, _ := cmd.Flags().GetBool("double")

	button, err := platform.ParseMouseButton(buttonName)
	if err != nil {
		return err
	}
	count := 1
	if double {
		count = 2
	}

	atCursor := !cmd.Flags().Changed("x") && !cmd.Flags().Changed("y")
	if atCursor {
		err = provider.Inputter.ClickCurrent(button, count)
	} else {
		err = provider.Inputter.Click(x, y, button, count)
	}
	if err != nil {
		return err
	}
	return output.Print(ClickResult{
		OK:     true,
		Action: "click",
		X:      x,
		Y:      y,
		Button: button.String(),
		Count:  count,
	})
}
