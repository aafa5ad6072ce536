package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/vision"
)

// PlanRouter executes a generated plan in order. A primitive failure stops
// the plan; steps already performed are not undone.
type PlanRouter struct {
	input     platform.Inputter
	windows   platform.WindowManager
	locator   Locator
	system    *systemDispatcher
	typeDelay int
	pause     func(context.Context, float64) error
	logger    *slog.Logger
}

func NewPlanRouter(p *platform.Provider, opts Options) *PlanRouter {
	return &PlanRouter{
		input:     p.Inputter,
		windows:   p.WindowManager,
		locator:   opts.Locator,
		system:    newSystemDispatcher(p, opts),
		typeDelay: opts.TypeDelayMs,
		pause:     sleep,
		logger:    opts.logger(),
	}
}

func (r *PlanRouter) Route(ctx context.Context, req Request) (res model.Result) {
	defer recoverResult(r.logger, &res)

	if len(req.Plan) == 0 {
		if req.Category == model.CategorySystemAction || req.Category == model.CategorySystem {
			return r.system.dispatch(systemSubcategory(req, ""), req.Raw)
		}
		return model.Failf("nothing to execute")
	}

	r.logger.Info("executing plan", "category", req.Category, "steps", len(req.Plan))
	for i, step := range req.Plan {
		r.logger.Debug("step", "n", i+1, "action", step.ActionType, "description", step.Description)
		if err := r.execute(ctx, step, req); err != nil {
			r.logger.Error("step failed", "n", i+1, "action", step.ActionType, "err", err)
			return model.Fail(fmt.Errorf("step %d (%s): %w", i+1, step.ActionType, err))
		}
	}
	return model.OK(fmt.Sprintf("Executed %d steps", len(req.Plan)))
}

func (r *PlanRouter) execute(ctx context.Context, step model.Step, req Request) error {
	switch step.ActionType {
	case model.ActionPressKey:
		keys := platform.SplitCombo(step.Params.String("key", ""))
		if len(keys) == 0 {
			r.logger.Warn("no key to press, skipping", "description", step.Description)
			return nil
		}
		return r.input.KeyCombo(keys)

	case model.ActionTypeText:
		return r.input.TypeText(step.Params.String("text", ""), r.typeDelay)

	case model.ActionWait:
		return r.pause(ctx, step.Params.Float("duration", 1))

	case model.ActionMouseClick, model.ActionScreenAnalysis:
		return r.visionClick(ctx, step)

	case model.ActionMouseRightClick:
		return r.input.ClickCurrent(platform.MouseRight, 1)

	case model.ActionMouseDoubleClick:
		return r.input.ClickCurrent(platform.MouseLeft, 2)

	case model.ActionSystem:
		res := r.system.dispatch(systemSubcategory(req, step.Params.String("action", "")), req.Raw)
		if !res.Success {
			return errors.New(res.Error)
		}
		return nil

	case model.ActionFocusWindow:
		opts := platform.FocusOptions{
			Window: step.Params.String("window", step.Params.String("title", "")),
			App:    step.Params.String("app", ""),
		}
		return r.windows.FocusWindow(opts)

	case model.ActionExecute:
		r.logger.Info("generic step, nothing to run", "description", step.Description)
		return nil

	default:
		r.logger.Warn("skipping unknown action type", "action", step.ActionType)
		return nil
	}
}

// visionClick clicks the element the step names. When the screen cannot be
// analysed or nothing matches it clicks at the current cursor position.
func (r *PlanRouter) visionClick(ctx context.Context, step model.Step) error {
	label := step.Params.String("target", step.Params.String("profile_name", ""))
	if label == "" {
		label = step.Description
	}
	if r.locator == nil {
		r.logger.Warn("no vision locator, blind click", "target", label)
		return r.input.ClickCurrent(platform.MouseLeft, 1)
	}

	p, err := r.locator.Locate(ctx, vision.Target{Label: label, Description: step.Description})
	if err != nil {
		r.logger.Warn("vision target not found, blind click", "target", label, "err", err)
		return r.input.ClickCurrent(platform.MouseLeft, 1)
	}
	switch p.Operation {
	case vision.OpDoubleClick:
		return r.input.Click(p.X, p.Y, platform.MouseLeft, 2)
	case vision.OpRightClick:
		return r.input.Click(p.X, p.Y, platform.MouseRight, 1)
	default:
		return r.input.Click(p.X, p.Y, platform.MouseLeft, 1)
	}
}
