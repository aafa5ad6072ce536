package linux

import (
	"fmt"
	"strconv"

	"github.com/mj1618/eva/internal/platform"
)

// WindowManager implements platform.WindowManager with xdotool search.
type WindowManager struct {
	run runner
}

func NewWindowManager(r runner) *WindowManager {
	return &WindowManager{run: r}
}

func (w *WindowManager) FocusWindow(opts platform.FocusOptions) error {
	var search []string
	switch {
	case opts.Window != "":
		search = []string{"search", "--onlyvisible", "--name", opts.Window}
	case opts.App != "":
		search = []string{"search", "--onlyvisible", "--class", opts.App}
	case opts.PID > 0:
		search = []string{"search", "--onlyvisible", "--pid", strconv.Itoa(opts.PID)}
	default:
		return fmt.Errorf("specify a window title, app, or pid to focus")
	}
	args := append(search, "windowactivate", "--sync")
	if err := run(w.run, "xdotool", args...); err != nil {
		return fmt.Errorf("focus window: %w", err)
	}
	return nil
}
