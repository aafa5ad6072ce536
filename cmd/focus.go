package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/eva/internal/extract"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/router"
	"github.com/spf13/cobra"
)

// FocusResult is the YAML output of a focus.
type FocusResult struct {
	OK       bool   `yaml:"ok"                 json:"ok"`
	Action   string `yaml:"action"             json:"action"`
	App      string `yaml:"app,omitempty"      json:"app,omitempty"`
	Window   string `yaml:"window,omitempty"   json:"window,omitempty"`
	PID      int    `yaml:"pid,omitempty"      json:"pid,omitempty"`
	Launched bool   `yaml:"launched,omitempty" json:"launched,omitempty"`
}

var focusCmd = &cobra.Command{
	Use:   "focus [app]",
	Short: "Bring a window to the foreground",
	Long: `Focus a window by app name, title substring or PID. An app given as an
argument is matched against window classes the way a spoken name would be.
With --launch an app that has no window is started instead.

Examples:
  eva focus firefox
  eva focus --window "Inbox"
  eva focus spotify --launch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.Flags().String("window", "", "Focus window by title substring")
	focusCmd.Flags().String("app", "", "Focus window by class name")
	focusCmd.Flags().Int("pid", 0, "Focus window by PID")
	focusCmd.Flags().Bool("launch", false, "Launch the app when no window matches")
}

func runFocus(cmd *cobra.Command, args []string) error {
	appName, _ := cmd.Flags().GetString("app")
	window, _ := cmd.Flags().GetString("window")
	pid, _ := cmd.Flags().GetInt("pid")
	launch, _ := cmd.Flags().GetBool("launch")
	if len(args) == 1 {
		appName = args[0]
	}
	opts := platform.FocusOptions{App: extract.NormalizeAppName(appName), Window: window, PID: pid}
	if opts.App == "" && opts.Window == "" && opts.PID == 0 {
		return fmt.Errorf("specify an app, --window or --pid")
	}

	provider, err := desktop()
	if err != nil {
		return err
	}
	result, err := focusOrLaunch(cmd.Context(), provider, opts, launch)
	if err != nil {
		return err
	}
	return output.Print(result)
}

// focusOrLaunch focuses the window opts selects. When that fails and launch
// is set, the app is opened the way an "open <app>" command would be.
func focusOrLaunch(ctx context.Context, provider *platform.Provider, opts platform.FocusOptions, launch bool) (FocusResult, error) {
	if provider.WindowManager == nil {
		return FocusResult{}, fmt.Errorf("window management not available on this platform")
	}
	result := FocusResult{OK: true, Action: "focus", App: opts.App, Window: opts.Window, PID: opts.PID}

	err := provider.WindowManager.FocusWindow(opts)
	if err == nil {
		return result, nil
	}
	if !launch || opts.App == "" {
		return FocusResult{}, err
	}
	logger.Info("no window to focus, launching", "app", opts.App, "err", err)

	r := router.NewDirectRouter(provider, router.Options{TypeDelayMs: cfg.TypeDelayMs, Logger: logger})
	res := r.Route(ctx, router.Request{
		Category: model.CategoryAppLaunch,
		Entities: model.Entities{AppName: opts.App},
		Raw:      "open " + opts.App,
	})
	if !res.Success {
		return FocusResult{}, fmt.Errorf("launch %s: %s", opts.App, res.Error)
	}
	result.Action = "launch"
	result.Launched = true
	return result, nil
}
