// Package vision finds click targets on the live screen: it captures a
// screenshot, asks a vision oracle for the visible elements and resolves a
// target description to one of them.
package vision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/platform"
)

var (
	// ErrNoElements means detection found nothing on screen.
	ErrNoElements = errors.New("no elements detected")
	// ErrNoTarget means the resolver could not pick an element.
	ErrNoTarget = errors.New("no matching element")
)

// Locator runs capture, detection and resolution for a single target.
type Locator struct {
	Screen   platform.Screenshotter
	Detector *Detector
	Resolver *Resolver
	Archive  *Archive // optional
	Logger   *slog.Logger
}

// Locate returns the screen point for target.
func (l *Locator) Locate(ctx context.Context, target Target) (Point, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shot, err := l.Screen.CaptureScreen(platform.ScreenshotOptions{})
	if err != nil {
		return Point{}, fmt.Errorf("capture screen: %w", err)
	}
	if l.Archive != nil {
		if path, err := l.Archive.Save(shot); err != nil {
			logger.Warn("screenshot not archived", "err", err)
		} else {
			logger.Debug("screenshot archived", "path", path)
		}
	}

	elements, err := l.Detector.Detect(ctx, shot)
	if err != nil {
		return Point{}, err
	}
	if len(elements) == 0 {
		return Point{}, ErrNoElements
	}

	p, ok := l.Resolver.Resolve(ctx, target, elements)
	if !ok {
		return Point{}, ErrNoTarget
	}
	return p, nil
}

// Elements captures the screen and returns the detected elements without
// resolving a target.
func (l *Locator) Elements(ctx context.Context) ([]byte, []model.ScreenElement, error) {
	shot, err := l.Screen.CaptureScreen(platform.ScreenshotOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("capture screen: %w", err)
	}
	elements, err := l.Detector.Detect(ctx, shot)
	if err != nil {
		return shot, nil, err
	}
	return shot, elements, nil
}
