package linux

import (
	"fmt"

	"github.com/mj1618/eva/internal/platform"
)

// SystemController drives PulseAudio/PipeWire volume through pactl,
// backlight through brightnessctl and power state through systemd.
type SystemController struct {
	run runner
}

func NewSystemController(r runner) *SystemController {
	return &SystemController{run: r}
}

func clampPercent(level int) int {
	return max(0, min(100, level))
}

func (s *SystemController) SetVolume(level int) error {
	return run(s.run, "pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", clampPercent(level)))
}

func (s *SystemController) SetMute(muted bool) error {
	state := "0"
	if muted {
		state = "1"
	}
	return run(s.run, "pactl", "set-sink-mute", "@DEFAULT_SINK@", state)
}

func (s *SystemController) SetBrightness(level int) error {
	return run(s.run, "brightnessctl", "--quiet", "set", fmt.Sprintf("%d%%", clampPercent(level)))
}

func (s *SystemController) Power(action platform.PowerAction) error {
	switch action {
	case platform.PowerShutdown:
		return run(s.run, "systemctl", "poweroff")
	case platform.PowerRestart:
		return run(s.run, "systemctl", "reboot")
	case platform.PowerSleep:
		return run(s.run, "systemctl", "suspend")
	case platform.PowerLock:
		return run(s.run, "loginctl", "lock-session")
	default:
		return fmt.Errorf("unknown power action: %q", action)
	}
}
