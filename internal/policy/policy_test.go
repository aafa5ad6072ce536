package policy

import (
	"context"
	"testing"

	"github.com/mj1618/eva/internal/model"
)

func TestDefaultEngine_Evaluate(t *testing.T) {
	engine := NewDefaultEngine()
	ctx := context.Background()

	res, err := engine.Evaluate(ctx, Request{Command: "open chrome", Category: model.CategoryAppLaunch})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !res.Allowed() {
		t.Errorf("expected allow, got %+v", res)
	}

	engine.DenyCategory(model.CategoryAppLaunch)
	res, _ = engine.Evaluate(ctx, Request{Command: "open chrome", Category: model.CategoryAppLaunch})
	if res.Effect != EffectDeny {
		t.Errorf("expected deny, got %s", res.Effect)
	}
}

func TestFromRules(t *testing.T) {
	engine, err := FromRules(Rules{
		DenyCategories:    []string{"web_action"},
		DenySystemActions: []string{"Shutdown"},
		DenyPatterns:      []string{`rm\s+-rf`},
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		req   Request
		allow bool
	}{
		{Request{Command: "search cats", Category: model.CategoryWebAction}, false},
		{Request{Command: "shut down", Category: model.CategorySystemAction, SystemAction: "shutdown"}, false},
		{Request{Command: "set volume to 5", Category: model.CategorySystemAction, SystemAction: "volume"}, true},
		{Request{Command: "type RM -RF /", Category: model.CategoryInAppAction}, false},
		{Request{Command: "type hello", Category: model.CategoryInAppAction}, true},
	}
	for _, tt := range tests {
		res, err := engine.Evaluate(context.Background(), tt.req)
		if err != nil {
			t.Fatal(err)
		}
		if res.Allowed() != tt.allow {
			t.Errorf("%q: got %+v, want allow=%v", tt.req.Command, res, tt.allow)
		}
	}
}

func TestFromRules_Invalid(t *testing.T) {
	if _, err := FromRules(Rules{DenyCategories: []string{"NOPE"}}); err == nil {
		t.Error("unknown category should fail")
	}
	if _, err := FromRules(Rules{DenyPatterns: []string{"("}}); err == nil {
		t.Error("bad regex should fail")
	}
}
