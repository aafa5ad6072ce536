// Package policy decides whether a classified command may run.
package policy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mj1618/eva/internal/model"
)

// Effect defines the result of a policy evaluation.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Request is a command about to be executed.
type Request struct {
	Command      string
	Category     model.Category
	SystemAction string // volume, mute, shutdown, ... for system categories
}

// Result contains the outcome of a policy evaluation.
type Result struct {
	Effect Effect
	Reason string
}

// Allowed reports whether the result permits execution.
func (r Result) Allowed() bool { return r.Effect != EffectDeny }

// Engine evaluates commands against a set of rules.
type Engine interface {
	Evaluate(ctx context.Context, req Request) (Result, error)
}

// Rules is the configurable deny list.
type Rules struct {
	DenyCategories    []string `yaml:"deny_categories"`
	DenySystemActions []string `yaml:"deny_system_actions"`
	DenyPatterns      []string `yaml:"deny_patterns"`
}

// DefaultEngine denies by category, system action or command regex and
// allows everything else.
type DefaultEngine struct {
	deniedCategories map[model.Category]bool
	deniedSystem     map[string]bool
	deniedRegex      []*regexp.Regexp
}

func NewDefaultEngine() *DefaultEngine {
	return &DefaultEngine{
		deniedCategories: make(map[model.Category]bool),
		deniedSystem:     make(map[string]bool),
	}
}

// FromRules builds an engine from configuration.
func FromRules(r Rules) (*DefaultEngine, error) {
	e := NewDefaultEngine()
	for _, c := range r.DenyCategories {
		cat, ok := model.ParseCategory(c)
		if !ok {
			return nil, fmt.Errorf("policy: unknown category %q", c)
		}
		e.DenyCategory(cat)
	}
	for _, a := range r.DenySystemActions {
		e.DenySystemAction(a)
	}
	for _, p := range r.DenyPatterns {
		if err := e.DenyPattern(p); err != nil {
			return nil, fmt.Errorf("policy: %w", err)
		}
	}
	return e, nil
}

func (e *DefaultEngine) DenyCategory(c model.Category) {
	e.deniedCategories[c] = true
}

func (e *DefaultEngine) DenySystemAction(action string) {
	e.deniedSystem[strings.ToLower(strings.TrimSpace(action))] = true
}

// DenyPattern rejects commands matching pattern, case-insensitively.
func (e *DefaultEngine) DenyPattern(pattern string) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return err
	}
	e.deniedRegex = append(e.deniedRegex, re)
	return nil
}

func (e *DefaultEngine) Evaluate(_ context.Context, req Request) (Result, error) {
	if e.deniedCategories[req.Category] {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("category %s is restricted by policy", req.Category),
		}, nil
	}
	if a := strings.ToLower(req.SystemAction); a != "" && e.deniedSystem[a] {
		return Result{
			Effect: EffectDeny,
			Reason: fmt.Sprintf("system action %q is restricted by policy", a),
		}, nil
	}
	for _, re := range e.deniedRegex {
		if re.MatchString(req.Command) {
			return Result{
				Effect: EffectDeny,
				Reason: fmt.Sprintf("command matches restricted pattern: %s", strings.TrimPrefix(re.String(), "(?i)")),
			}, nil
		}
	}
	return Result{Effect: EffectAllow, Reason: "approved by default policy"}, nil
}
