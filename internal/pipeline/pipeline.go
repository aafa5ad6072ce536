// Package pipeline turns a raw command into an executed action: classify,
// extract entities, generate a plan, then route it to the desktop.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/eva/internal/classify"
	"github.com/mj1618/eva/internal/extract"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/policy"
	"github.com/mj1618/eva/internal/router"
	"github.com/mj1618/eva/internal/steps"
	"github.com/mj1618/eva/internal/store"
)

// DefaultConfidenceThreshold is the confidence under which a warning is logged.
const DefaultConfidenceThreshold = 0.6

// Journal records processed commands.
type Journal interface {
	Record(ctx context.Context, e store.Entry) (store.Entry, error)
}

// Options configures a Pipeline. Every field is optional.
type Options struct {
	Policy              policy.Engine
	Journal             Journal
	ConfidenceThreshold float64
	Logger              *slog.Logger
}

// Pipeline executes commands one at a time.
type Pipeline struct {
	mu         sync.Mutex
	classifier classify.Classifier
	router     router.Router
	policy     policy.Engine
	journal    Journal
	threshold  float64
	logger     *slog.Logger

	generate func(model.Category, model.Entities) model.Plan
	now      func() time.Time
}

func New(c classify.Classifier, r router.Router, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := opts.ConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Pipeline{
		classifier: c,
		router:     r,
		policy:     opts.Policy,
		journal:    opts.Journal,
		threshold:  threshold,
		logger:     logger,
		generate:   steps.Generate,
		now:        time.Now,
	}
}

// Preview is the dry-run view of a command.
type Preview struct {
	Command        string               `yaml:"command"        json:"command"`
	Classification model.Classification `yaml:"classification" json:"classification"`
	Confidence     int                  `yaml:"confidence_pct" json:"confidence_pct"`
	Entities       model.Entities       `yaml:"entities"       json:"entities"`
	Plan           model.Plan           `yaml:"plan"           json:"plan"`
}

// Plan classifies raw and builds its plan without executing anything.
// SYSTEM_ACTION commands preview with an empty plan.
func (p *Pipeline) Plan(ctx context.Context, raw string) (Preview, error) {
	cls, err := p.classifier.Classify(ctx, raw)
	if err != nil {
		return Preview{}, fmt.Errorf("classify: %w", err)
	}
	ents, plan := p.expand(raw, cls)
	return Preview{
		Command:        raw,
		Classification: cls,
		Confidence:     cls.Percent(),
		Entities:       ents,
		Plan:           plan,
	}, nil
}

// expand runs extraction and generation. The generator is skipped for
// SYSTEM_ACTION, which the routers handle directly.
func (p *Pipeline) expand(raw string, cls model.Classification) (model.Entities, model.Plan) {
	ents := extract.Extract(raw, cls.Category)
	ents.Merge(cls.Entities)
	if cls.Category == model.CategorySystemAction {
		return ents, model.Plan{}
	}
	return ents, p.generate(cls.Category, ents)
}

// ProcessAndExecute runs raw through the whole pipeline. It never returns an
// error or panics; failures are reported in the Result.
func (p *Pipeline) ProcessAndExecute(ctx context.Context, raw string) model.Result {
	e := p.Execute(ctx, raw)
	return model.Result{Success: e.Success, Message: e.Message, Error: e.Error}
}

// Execute is ProcessAndExecute returning the journal entry of the command,
// which also carries its classification and timing. ID is set only when the
// entry was journaled.
func (p *Pipeline) Execute(ctx context.Context, raw string) (entry store.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.now()
	raw = strings.TrimSpace(raw)
	entry.Command = raw
	var res model.Result
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panicked", "command", raw, "panic", r)
			res = model.Failf(fmt.Sprintf("pipeline error: %v", r))
		}
		entry.Success = res.Success
		entry.Message = res.Message
		entry.Error = res.Error
		entry.DurationMs = p.now().Sub(start).Milliseconds()
		entry = p.record(ctx, entry)
	}()

	cls, err := p.classifier.Classify(ctx, raw)
	if err != nil {
		p.logger.Warn("classification failed", "command", raw, "err", err)
		res = model.Fail(fmt.Errorf("classify: %w", err))
		return
	}
	entry.Category = cls.Category
	entry.Confidence = cls.Confidence
	entry.Source = cls.Source

	log := p.logger.With("command", raw, "category", cls.Category, "confidence", cls.Percent())
	if cls.Confidence < p.threshold {
		log.Warn("low confidence classification")
	} else {
		log.Info("classified")
	}

	ents, plan := p.expand(raw, cls)
	entry.Steps = len(plan)

	if p.policy != nil {
		decision, err := p.policy.Evaluate(ctx, policy.Request{
			Command:      raw,
			Category:     cls.Category,
			SystemAction: systemAction(cls, ents, raw),
		})
		if err != nil {
			res = model.Fail(fmt.Errorf("policy: %w", err))
			return
		}
		if !decision.Allowed() {
			log.Warn("command denied", "reason", decision.Reason)
			res = model.Failf("denied: " + decision.Reason)
			return
		}
	}

	res = p.router.Route(ctx, router.Request{
		Category:       cls.Category,
		Plan:           plan,
		Entities:       ents,
		Raw:            raw,
		Classification: cls,
	})
	if res.Success {
		log.Info("executed", "steps", len(plan), "message", res.Message)
	} else {
		log.Warn("execution failed", "steps", len(plan), "err", res.Error)
	}
	return
}

func (p *Pipeline) record(ctx context.Context, e store.Entry) store.Entry {
	if p.journal == nil {
		return e
	}
	// A cancelled command is still journaled.
	saved, err := p.journal.Record(context.WithoutCancel(ctx), e)
	if err != nil {
		p.logger.Warn("journal write failed", "err", err)
		return e
	}
	return saved
}

func systemAction(cls model.Classification, ents model.Entities, raw string) string {
	switch {
	case cls.Subcategory != "":
		return cls.Subcategory
	case ents.SystemAction != "":
		return ents.SystemAction
	case cls.Category == model.CategorySystemAction || cls.Category == model.CategorySystem:
		if a := extract.InferSystemAction(raw); a != "" {
			return a
		}
		return extract.InferSystemAction(cls.Action)
	}
	return ""
}
