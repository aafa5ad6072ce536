// Package router executes classified commands against the desktop. The plan
// router walks a generated plan step by step; the direct router performs one
// fixed action per semantic category.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mj1618/eva/internal/classify"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/vision"
)

// Request is everything a router may need to execute one command.
type Request struct {
	Category       model.Category
	Plan           model.Plan
	Entities       model.Entities
	Raw            string
	Classification model.Classification
}

// Router executes a command and reports the outcome. It never panics.
type Router interface {
	Route(ctx context.Context, req Request) model.Result
}

// Locator finds a click target on screen.
type Locator interface {
	Locate(ctx context.Context, target vision.Target) (vision.Point, error)
}

// Options configures both routers.
type Options struct {
	// Locator resolves vision-guided clicks. When nil every such click is a
	// blind click at the cursor.
	Locator Locator
	// Archive stores screenshots taken by the screenshot system action.
	Archive     *vision.Archive
	TypeDelayMs int
	Logger      *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// ForFamily returns the router that understands the categories produced by
// classifiers of family f.
func ForFamily(f classify.Family, p *platform.Provider, opts Options) Router {
	if f == classify.FamilySemantic {
		return NewDirectRouter(p, opts)
	}
	return NewPlanRouter(p, opts)
}

// sleep waits for seconds or until ctx is done.
func sleep(ctx context.Context, seconds float64) error {
	if seconds <= 0 {
		return nil
	}
	t := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// recoverResult converts a panic inside Route into a failed Result.
func recoverResult(logger *slog.Logger, res *model.Result) {
	if r := recover(); r != nil {
		logger.Error("execution panicked", "panic", r)
		*res = model.Failf(fmt.Sprintf("execution error: %v", r))
	}
}
