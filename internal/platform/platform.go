package platform

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	// Click moves to (x, y) and clicks count times.
	Click(x, y int, button MouseButton, count int) error
	// ClickCurrent clicks at the current cursor position without moving it.
	ClickCurrent(button MouseButton, count int) error
	MoveMouse(x, y int) error
	Scroll(x, y int, dx, dy int) error
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
}

// WindowManager manages window focus.
type WindowManager interface {
	FocusWindow(opts FocusOptions) error
}

// Screenshotter captures screenshots.
type Screenshotter interface {
	// CaptureScreen captures the full screen, or opts.Region when set, and
	// returns PNG bytes.
	CaptureScreen(opts ScreenshotOptions) ([]byte, error)
}

// SystemController changes machine-level settings.
type SystemController interface {
	// SetVolume sets the output volume to level percent (0-100).
	SetVolume(level int) error
	SetMute(muted bool) error
	// SetBrightness sets the display brightness to level percent (0-100).
	SetBrightness(level int) error
	Power(action PowerAction) error
}
