package platform

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"strings"
	"sync"
)

// Call is one recorded primitive invocation.
type Call struct {
	Method string
	Args   string
}

func (c Call) String() string {
	if c.Args == "" {
		return c.Method
	}
	return c.Method + " " + c.Args
}

// Recorder implements every backend interface without touching the desktop.
// Each call is logged and recorded. It backs --dry-run.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	logger *slog.Logger

	// Width and Height size the blank screenshot returned by CaptureScreen.
	Width, Height int
	// Fail makes the named method return the given error instead of recording.
	Fail map[string]error
}

// NewRecorder returns a Recorder that logs through logger (slog.Default when nil).
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger, Width: 320, Height: 180}
}

// Provider wraps r as a Provider.
func (r *Recorder) Provider() *Provider {
	return &Provider{Inputter: r, WindowManager: r, Screenshotter: r, System: r}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Methods returns the method names of the recorded calls, in order.
func (r *Recorder) Methods() []string {
	var out []string
	for _, c := range r.Calls() {
		out = append(out, c.Method)
	}
	return out
}

func (r *Recorder) record(method, format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.Fail[method]; ok {
		return err
	}
	c := Call{Method: method, Args: fmt.Sprintf(format, args...)}
	r.calls = append(r.calls, c)
	r.logger.Info("dry run", "call", c.String())
	return nil
}

func (r *Recorder) Click(x, y int, button MouseButton, count int) error {
	return r.record("Click", "%d,%d %s x%d", x, y, button, count)
}

func (r *Recorder) ClickCurrent(button MouseButton, count int) error {
	return r.record("ClickCurrent", "%s x%d", button, count)
}

func (r *Recorder) MoveMouse(x, y int) error {
	return r.record("MoveMouse", "%d,%d", x, y)
}

func (r *Recorder) Scroll(x, y int, dx, dy int) error {
	return r.record("Scroll", "%d,%d by %d,%d", x, y, dx, dy)
}

func (r *Recorder) TypeText(text string, delayMs int) error {
	return r.record("TypeText", "%s", text)
}

func (r *Recorder) KeyCombo(keys []string) error {
	return r.record("KeyCombo", "%s", strings.Join(keys, "+"))
}

func (r *Recorder) FocusWindow(opts FocusOptions) error {
	switch {
	case opts.Window != "":
		return r.record("FocusWindow", "window=%s", opts.Window)
	case opts.App != "":
		return r.record("FocusWindow", "app=%s", opts.App)
	default:
		return r.record("FocusWindow", "pid=%d", opts.PID)
	}
}

func (r *Recorder) CaptureScreen(opts ScreenshotOptions) ([]byte, error) {
	w, h := r.Width, r.Height
	if opts.Region != nil {
		w, h = opts.Region.Width, opts.Region.Height
	}
	if err := r.record("CaptureScreen", "%dx%d", w, h); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255}), image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Recorder) SetVolume(level int) error {
	return r.record("SetVolume", "%d", level)
}

func (r *Recorder) SetMute(muted bool) error {
	return r.record("SetMute", "%t", muted)
}

func (r *Recorder) SetBrightness(level int) error {
	return r.record("SetBrightness", "%d", level)
}

func (r *Recorder) Power(action PowerAction) error {
	return r.record("Power", "%s", action)
}
