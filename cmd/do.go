package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/router"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DoResult is the YAML output of a batch do command.
type DoResult struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
}

// StepResult is the output for a single step within a batch.
type StepResult struct {
	Step    int              `yaml:"step"              json:"step"`
	OK      bool             `yaml:"ok"                json:"ok"`
	Action  model.ActionType `yaml:"action"            json:"action"`
	Error   string           `yaml:"error,omitempty"   json:"error,omitempty"`
	Elapsed string           `yaml:"elapsed,omitempty" json:"elapsed,omitempty"`
}

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Execute an explicit plan of steps",
	Long: `Execute a plan read from --file or stdin, skipping classification and
step generation. The plan is a YAML list of steps in the same form that
"eva plan" prints. Steps execute sequentially, and by default execution
stops on the first error.

Supported action types: PRESS_KEY, TYPE_TEXT, WAIT, MOUSE_CLICK,
MOUSE_RIGHTCLICK, MOUSE_DOUBLECLICK, SCREEN_ANALYSIS, SYSTEM_ACTION,
FOCUS_WINDOW, EXECUTE

Example:
  eva do <<'EOF'
  - action_type: PRESS_KEY
    parameters: { key: ctrl+l }
  - action_type: TYPE_TEXT
    parameters: { text: "github.com" }
  - action_type: PRESS_KEY
    parameters: { key: enter }
  - action_type: WAIT
    parameters: { duration: 2 }
  EOF`,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().String("file", "", "Read the plan from a YAML file instead of stdin")
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error (default: true)")
}

func runDo(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	var (
		data []byte
		err  error
	)
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}
	plan, err := parsePlan(data)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := router.Options{Archive: a.archive, TypeDelayMs: cfg.TypeDelayMs, Logger: logger}
	if a.locator != nil {
		opts.Locator = a.locator
	}
	r := router.NewPlanRouter(a.provider, opts)

	result := executePlan(cmd.Context(), r, plan, stopOnError)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%d of %d steps completed", result.Completed, result.Steps)
	}
	return nil
}

// parsePlan decodes a YAML list of steps.
func parsePlan(data []byte) (model.Plan, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("no steps provided: pipe a YAML list of steps or use --file")
	}
	var plan model.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(plan) == 0 {
		return nil, fmt.Errorf("no steps provided: expected a YAML list of steps")
	}
	for i, step := range plan {
		if step.ActionType == "" {
			return nil, fmt.Errorf("step %d: action_type is required", i+1)
		}
		if step.ActionType == model.ActionConditional {
			return nil, fmt.Errorf("step %d: CONDITIONAL steps only exist in templates", i+1)
		}
	}
	return plan, nil
}

// executePlan routes each step on its own so every step gets a result.
func executePlan(ctx context.Context, r router.Router, plan model.Plan, stopOnError bool) DoResult {
	results := make([]StepResult, 0, len(plan))
	completed := 0
	var lastErr string

	for i, step := range plan {
		start := time.Now()
		res := r.Route(ctx, router.Request{
			Plan: model.Plan{step},
			Raw:  stepCommand(step),
		})
		sr := StepResult{
			Step:    i + 1,
			OK:      res.Success,
			Action:  step.ActionType,
			Error:   res.Error,
			Elapsed: time.Since(start).Round(time.Millisecond).String(),
		}
		if res.Success {
			completed++
		} else {
			lastErr = fmt.Sprintf("step %d: %s", i+1, res.Error)
		}
		results = append(results, sr)
		if !res.Success && stopOnError {
			break
		}
	}

	return DoResult{
		OK:        lastErr == "",
		Action:    "do",
		Steps:     len(plan),
		Completed: completed,
		Error:     lastErr,
		Results:   results,
	}
}

// stepCommand gives a SYSTEM_ACTION step the text its level is read from.
func stepCommand(step model.Step) string {
	return strings.TrimSpace(step.Description + " " + step.Params.String("value", ""))
}
