package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mj1618/eva/internal/extract"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/platform"
)

// DirectRouter performs one fixed action per semantic category and ignores
// the plan, except for the system fast path.
type DirectRouter struct {
	input     platform.Inputter
	system    *systemDispatcher
	typeDelay int
	pause     func(context.Context, float64) error
	logger    *slog.Logger
}

func NewDirectRouter(p *platform.Provider, opts Options) *DirectRouter {
	return &DirectRouter{
		input:     p.Inputter,
		system:    newSystemDispatcher(p, opts),
		typeDelay: opts.TypeDelayMs,
		pause:     sleep,
		logger:    opts.logger(),
	}
}

func (r *DirectRouter) Route(ctx context.Context, req Request) (res model.Result) {
	defer recoverResult(r.logger, &res)

	r.logger.Info("routing", "category", req.Category)
	switch req.Category {
	case model.CategoryAppLaunch:
		return r.launch(ctx, req)
	case model.CategorySystemAction:
		return r.system.dispatch(systemSubcategory(req, ""), req.Raw)
	case model.CategoryInAppAction:
		return r.inApp(ctx, req)
	case model.CategoryWebAction:
		return r.web(ctx, req)
	default:
		return model.Failf(fmt.Sprintf("unknown category: %s", req.Category))
	}
}

// run performs primitives in order and stops at the first error.
func run(steps ...func() error) error {
	for _, s := range steps {
		if err := s(); err != nil {
			return err
		}
	}
	return nil
}

func (r *DirectRouter) key(combo string) func() error {
	return func() error { return r.input.KeyCombo(platform.SplitCombo(combo)) }
}

func (r *DirectRouter) typeText(text string) func() error {
	return func() error { return r.input.TypeText(text, r.typeDelay) }
}

func (r *DirectRouter) wait(ctx context.Context, seconds float64) func() error {
	return func() error { return r.pause(ctx, seconds) }
}

func (r *DirectRouter) launch(ctx context.Context, req Request) model.Result {
	app := req.Entities.AppName
	if app == "" {
		app = req.Classification.Entities["app_name"]
	}
	if app == "" {
		app, _ = extract.LaunchedApp(req.Raw)
	}
	app = extract.NormalizeAppName(app)
	if app == "" {
		return model.Failf("no app name found")
	}

	r.logger.Info("launching app", "app", app)
	err := run(
		r.key("win"),
		r.wait(ctx, 0.5),
		r.typeText(app),
		r.wait(ctx, 0.5),
		r.key("enter"),
	)
	if err != nil {
		return model.Fail(fmt.Errorf("launch %s: %w", app, err))
	}
	return model.OK("Opened " + app)
}

func inAppAction(req Request) string {
	for _, a := range []string{req.Classification.Action, req.Entities.Action} {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" && a != "unknown" {
			return a
		}
	}
	if a := extract.InferInAppAction(strings.Fields(strings.ToLower(req.Raw))); a != "" {
		return a
	}
	return strings.ToLower(strings.TrimSpace(req.Classification.Action))
}

func (r *DirectRouter) inApp(ctx context.Context, req Request) model.Result {
	action := inAppAction(req)
	r.logger.Info("in-app action", "action", action)

	switch action {
	case "close":
		if err := run(r.key("alt+f4"), r.wait(ctx, 0.5)); err != nil {
			return model.Fail(fmt.Errorf("close window: %w", err))
		}
		return model.OK("Window closed")
	case "click":
		if err := r.input.ClickCurrent(platform.MouseLeft, 1); err != nil {
			return model.Fail(fmt.Errorf("click: %w", err))
		}
		return model.OK("Clicked")
	case "type":
		text, ok := extract.TypedText(req.Raw)
		if !ok {
			return model.Failf("no text to type")
		}
		if err := r.input.TypeText(text, r.typeDelay); err != nil {
			return model.Fail(fmt.Errorf("type: %w", err))
		}
		return model.OK("Typed: " + text)
	default:
		return model.Failf(fmt.Sprintf("unknown in-app action: %s", action))
	}
}

// web types into the browser address bar. A query for the default engine is
// typed directly; a named site is opened first and searched with "/".
func (r *DirectRouter) web(ctx context.Context, req Request) model.Result {
	site, query := req.Entities.Website, req.Entities.SearchQuery
	if site == "" && query == "" {
		return model.OK("Web action completed")
	}

	var steps []func() error
	switch {
	case query != "" && (site == "" || site == "google.com"):
		steps = append(steps, r.key("ctrl+l"), r.typeText(query), r.key("enter"))
	case query != "":
		steps = append(steps,
			r.key("ctrl+l"), r.typeText(site), r.key("enter"), r.wait(ctx, 2.5),
			r.key("/"), r.typeText(query), r.key("enter"),
		)
	default:
		steps = append(steps, r.key("ctrl+l"), r.typeText(site), r.key("enter"))
	}
	if err := run(steps...); err != nil {
		return model.Fail(fmt.Errorf("web action: %w", err))
	}
	if query != "" {
		return model.OK("Searched: " + query)
	}
	return model.OK("Opened " + site)
}
