package router

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mj1618/eva/internal/extract"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/vision"
)

// systemDispatcher runs volume, brightness, mute, power and screenshot
// actions. Both routers share it.
type systemDispatcher struct {
	sys     platform.SystemController
	screen  platform.Screenshotter
	archive *vision.Archive
	logger  *slog.Logger
}

func newSystemDispatcher(p *platform.Provider, opts Options) *systemDispatcher {
	return &systemDispatcher{sys: p.System, screen: p.Screenshotter, archive: opts.Archive, logger: opts.logger()}
}

// systemSubcategory decides which system action a request asks for: the
// classifier's subcategory, then the extracted slot, then keywords in the
// raw command and the action name.
func systemSubcategory(req Request, hint string) string {
	for _, s := range []string{hint, req.Classification.Subcategory, req.Entities.SystemAction} {
		if s = normalizeSystem(s); s != "" {
			return s
		}
	}
	if s := extract.InferSystemAction(req.Raw); s != "" {
		return s
	}
	return normalizeSystem(req.Classification.Action)
}

func normalizeSystem(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "screenshot"), strings.Contains(s, "capture"):
		return "screenshot"
	}
	if a := extract.InferSystemAction(strings.ReplaceAll(s, "_", " ")); a != "" {
		return a
	}
	return s
}

func (d *systemDispatcher) dispatch(action, raw string) model.Result {
	d.logger.Info("system action", "action", action)
	switch action {
	case "volume":
		level, ok := extract.FirstNumber(raw)
		if !ok {
			return model.Failf("no volume level found")
		}
		level = clampPercent(level)
		if d.sys == nil {
			return model.Fail(platform.ErrUnsupported)
		}
		if err := d.sys.SetVolume(level); err != nil {
			return model.Fail(fmt.Errorf("set volume: %w", err))
		}
		return model.OK(fmt.Sprintf("Volume set to %d%%", level))
	case "brightness":
		level, ok := extract.FirstNumber(raw)
		if !ok {
			return model.Failf("no brightness level found")
		}
		level = clampPercent(level)
		if d.sys == nil {
			return model.Fail(platform.ErrUnsupported)
		}
		if err := d.sys.SetBrightness(level); err != nil {
			return model.Fail(fmt.Errorf("set brightness: %w", err))
		}
		return model.OK(fmt.Sprintf("Brightness set to %d%%", level))
	case "mute", "unmute":
		if d.sys == nil {
			return model.Fail(platform.ErrUnsupported)
		}
		if err := d.sys.SetMute(action == "mute"); err != nil {
			return model.Fail(fmt.Errorf("%s: %w", action, err))
		}
		if action == "mute" {
			return model.OK("Muted")
		}
		return model.OK("Unmuted")
	case "screenshot":
		return d.screenshot()
	}

	power, err := platform.ParsePowerAction(action)
	if err != nil {
		return model.Failf("unknown system action")
	}
	if d.sys == nil {
		return model.Fail(platform.ErrUnsupported)
	}
	if err := d.sys.Power(power); err != nil {
		return model.Fail(fmt.Errorf("%s: %w", power, err))
	}
	return model.OK(fmt.Sprintf("System %s initiated", power))
}

func (d *systemDispatcher) screenshot() model.Result {
	if d.screen == nil {
		return model.Fail(platform.ErrUnsupported)
	}
	data, err := d.screen.CaptureScreen(platform.ScreenshotOptions{})
	if err != nil {
		return model.Fail(fmt.Errorf("screenshot: %w", err))
	}
	if d.archive == nil {
		return model.OK("Screenshot taken")
	}
	path, err := d.archive.Save(data)
	if err != nil {
		return model.Fail(err)
	}
	return model.OK("Screenshot saved: " + path)
}

func clampPercent(v int) int {
	return max(0, min(100, v))
}
