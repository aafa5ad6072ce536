package cmd

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/router"
)

const samplePlan = `
- action_type: PRESS_KEY
  parameters: { key: ctrl+l }
  description: Focus address bar
- action_type: TYPE_TEXT
  parameters: { text: github.com }
- action_type: WAIT
  parameters: { duration: 0 }
- action_type: PRESS_KEY
  parameters: { key: enter }
`

func TestParsePlan(t *testing.T) {
	plan, err := parsePlan([]byte(samplePlan))
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != 4 {
		t.Fatalf("got %d steps, want 4", len(plan))
	}
	if plan[0].ActionType != model.ActionPressKey || plan[0].Params.String("key", "") != "ctrl+l" {
		t.Errorf("step 1 = %+v", plan[0])
	}
	if plan[0].Description != "Focus address bar" {
		t.Errorf("description = %q", plan[0].Description)
	}
	if got := plan[2].Params.Float("duration", 1); got != 0 {
		t.Errorf("duration = %v, want 0", got)
	}
}

func TestParsePlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  \n", "no steps provided"},
		{"empty list", "[]", "no steps provided"},
		{"not a list", "key: value", "failed to parse"},
		{"missing action", "- parameters: { key: enter }", "action_type is required"},
		{"conditional", "- action_type: CONDITIONAL", "only exist in templates"},
	}
	for _, tt := range tests {
		_, err := parsePlan([]byte(tt.in))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: got %v, want error containing %q", tt.name, err, tt.want)
		}
	}
}

func newTestRouter(rec *platform.Recorder) router.Router {
	return router.NewPlanRouter(rec.Provider(), router.Options{})
}

func TestExecutePlan_AllSuccess(t *testing.T) {
	plan, err := parsePlan([]byte(samplePlan))
	if err != nil {
		t.Fatal(err)
	}
	rec := platform.NewRecorder(nil)

	result := executePlan(context.Background(), newTestRouter(rec), plan, true)
	if !result.OK || result.Completed != 4 || result.Steps != 4 || result.Error != "" {
		t.Errorf("got %+v", result)
	}
	if len(result.Results) != 4 {
		t.Fatalf("got %d results, want 4", len(result.Results))
	}
	for i, r := range result.Results {
		if r.Step != i+1 || !r.OK {
			t.Errorf("result %d = %+v", i, r)
		}
	}
	want := []string{"KeyCombo", "TypeText", "KeyCombo"}
	if got := rec.Methods(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestExecutePlan_StopOnError(t *testing.T) {
	plan, _ := parsePlan([]byte(samplePlan))
	rec := platform.NewRecorder(nil)
	rec.Fail = map[string]error{"TypeText": errors.New("no display")}

	result := executePlan(context.Background(), newTestRouter(rec), plan, true)
	if result.OK {
		t.Error("expected ok=false")
	}
	if result.Completed != 1 || len(result.Results) != 2 {
		t.Errorf("completed=%d results=%d, want 1 and 2", result.Completed, len(result.Results))
	}
	if !strings.HasPrefix(result.Error, "step 2:") || !strings.Contains(result.Error, "no display") {
		t.Errorf("error = %q", result.Error)
	}
	if result.Results[1].OK || result.Results[1].Action != model.ActionTypeText {
		t.Errorf("step 2 = %+v", result.Results[1])
	}
}

func TestExecutePlan_ContinueOnError(t *testing.T) {
	plan, _ := parsePlan([]byte(samplePlan))
	rec := platform.NewRecorder(nil)
	rec.Fail = map[string]error{"TypeText": errors.New("no display")}

	result := executePlan(context.Background(), newTestRouter(rec), plan, false)
	if result.OK {
		t.Error("expected ok=false")
	}
	if result.Completed != 3 || len(result.Results) != 4 {
		t.Errorf("completed=%d results=%d, want 3 and 4", result.Completed, len(result.Results))
	}
	// The last failure is reported.
	if !strings.HasPrefix(result.Error, "step 2:") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestExecutePlan_SystemStep(t *testing.T) {
	plan, err := parsePlan([]byte(`
- action_type: SYSTEM_ACTION
  parameters: { action: volume, value: 35 }
  description: Set volume
`))
	if err != nil {
		t.Fatal(err)
	}
	rec := platform.NewRecorder(nil)

	result := executePlan(context.Background(), newTestRouter(rec), plan, true)
	if !result.OK {
		t.Fatalf("got %+v", result)
	}
	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Method != "SetVolume" || !strings.Contains(calls[0].Args, "35") {
		t.Errorf("calls = %v", calls)
	}
}

func TestStepCommand(t *testing.T) {
	s := model.Step{Description: "Set brightness", Params: model.Params{"value": 70}}
	if got := stepCommand(s); got != "Set brightness 70" {
		t.Errorf("got %q", got)
	}
	if got := stepCommand(model.Step{}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
