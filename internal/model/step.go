package model

import (
	"fmt"
	"strconv"
)

// ActionType is the wire vocabulary shared by the step generator and the
// action router.
type ActionType string

const (
	ActionPressKey         ActionType = "PRESS_KEY"
	ActionTypeText         ActionType = "TYPE_TEXT"
	ActionWait             ActionType = "WAIT"
	ActionMouseClick       ActionType = "MOUSE_CLICK"
	ActionMouseRightClick  ActionType = "MOUSE_RIGHTCLICK"
	ActionMouseDoubleClick ActionType = "MOUSE_DOUBLECLICK"
	ActionScreenAnalysis   ActionType = "SCREEN_ANALYSIS"
	ActionSystem           ActionType = "SYSTEM_ACTION"
	ActionFocusWindow      ActionType = "FOCUS_WINDOW"
	ActionExecute          ActionType = "EXECUTE"
	// ActionConditional marks a template branch point. It never appears in a
	// generated plan.
	ActionConditional ActionType = "CONDITIONAL"
)

// Params holds step parameters. Values are strings or numbers.
type Params map[string]any

// Step is a single abstract or concrete action.
type Step struct {
	ActionType  ActionType `yaml:"action_type"          json:"action_type"`
	Params      Params     `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Description string     `yaml:"description"          json:"description"`
}

// Plan is an ordered, fully substituted list of steps ready for execution.
type Plan []Step

// Clone returns a copy of s whose Params map is not shared with s.
func (s Step) Clone() Step {
	out := Step{ActionType: s.ActionType, Description: s.Description}
	if s.Params != nil {
		out.Params = make(Params, len(s.Params))
		for k, v := range s.Params {
			out.Params[k] = v
		}
	}
	return out
}

// String returns the parameter as a string, or def if it is missing.
func (p Params) String(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Float returns the parameter as a float64, or def if it is missing or not
// numeric.
func (p Params) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

// Int returns the parameter as an int, or def if it is missing or not numeric.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return def
		}
		return n
	}
	return def
}
