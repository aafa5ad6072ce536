package linux

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mj1618/eva/internal/platform"
)

// Screenshotter captures the X11 root window. It prefers ImageMagick's
// import, which can stream PNG to stdout, and falls back to ffmpeg x11grab
// through a temporary file.
type Screenshotter struct {
	run     runner
	display string
}

func NewScreenshotter(r runner) *Screenshotter {
	display := os.Getenv("DISPLAY")
	if display == "" {
		display = ":0"
	}
	return &Screenshotter{run: r, display: display}
}

func (s *Screenshotter) CaptureScreen(opts platform.ScreenshotOptions) ([]byte, error) {
	if s.run.LookPath("import") == nil {
		args := []string{"-window", "root"}
		if r := opts.Region; r != nil {
			args = append(args, "-crop", fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y), "+repage")
		}
		args = append(args, "png:-")
		out, err := s.run.Run(context.Background(), "import", args...)
		if err != nil {
			return nil, fmt.Errorf("capture screen: %w", err)
		}
		return out, nil
	}

	dir, err := os.MkdirTemp("", "eva-shot-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "screen.png")

	args := []string{"-loglevel", "error", "-f", "x11grab"}
	input := s.display
	if r := opts.Region; r != nil {
		args = append(args, "-video_size", strconv.Itoa(r.Width)+"x"+strconv.Itoa(r.Height))
		input = fmt.Sprintf("%s+%d,%d", s.display, r.X, r.Y)
	}
	args = append(args, "-i", input, "-frames:v", "1", "-y", path)
	if _, err := s.run.Run(context.Background(), "ffmpeg", args...); err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return os.ReadFile(path)
}
