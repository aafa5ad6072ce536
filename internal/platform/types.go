package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "left"
	}
}

// ParseMouseButton converts a string flag value to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// Bounds represents a screen rectangle.
type Bounds struct {
	X, Y, Width, Height int
}

// ParseBBox parses a "x,y,w,h" string into a Bounds.
func ParseBBox(s string) (*Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bbox %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return nil, fmt.Errorf("invalid bbox %q: width and height must be positive", s)
	}
	return &Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// FocusOptions specifies what to focus. The first non-empty field wins, in
// the order Window, App, PID.
type FocusOptions struct {
	App    string // Match by window class
	Window string // Match by window title substring
	PID    int
}

// ScreenshotOptions configures what to capture.
type ScreenshotOptions struct {
	Region *Bounds // nil = full screen
}

// PowerAction is a machine power-state change.
type PowerAction string

const (
	PowerShutdown PowerAction = "shutdown"
	PowerRestart  PowerAction = "restart"
	PowerSleep    PowerAction = "sleep"
	PowerLock     PowerAction = "lock"
)

// ParsePowerAction maps spoken synonyms onto a PowerAction.
func ParsePowerAction(s string) (PowerAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shutdown", "shut down", "power off", "poweroff":
		return PowerShutdown, nil
	case "restart", "reboot":
		return PowerRestart, nil
	case "sleep", "suspend":
		return PowerSleep, nil
	case "lock":
		return PowerLock, nil
	default:
		return "", fmt.Errorf("unknown power action: %q (expected shutdown, restart, sleep, or lock)", s)
	}
}

// SplitCombo splits a "ctrl+shift+t" style combo into its keys. A literal
// "+" key is kept when it is the last element ("ctrl++").
func SplitCombo(combo string) []string {
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return nil
	}
	if combo == "+" {
		return []string{"+"}
	}
	trailingPlus := strings.HasSuffix(combo, "++")
	if trailingPlus {
		combo = strings.TrimSuffix(combo, "++")
	}
	var keys []string
	for _, k := range strings.Split(combo, "+") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, strings.ToLower(k))
		}
	}
	if trailingPlus {
		keys = append(keys, "+")
	}
	return keys
}
