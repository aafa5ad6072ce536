package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/image/draw"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/oracle"
)

// DefaultMaxElements caps how many detected elements are kept.
const DefaultMaxElements = 30

// DefaultMaxWidth is the widest image sent to the vision oracle.
const DefaultMaxWidth = 1280

// Detector turns a screenshot into screen elements using a vision oracle.
type Detector struct {
	oracle      oracle.Completer
	maxElements int
	maxWidth    int
	logger      *slog.Logger
}

// DetectorOptions configures a Detector. Zero values take the defaults.
type DetectorOptions struct {
	MaxElements int
	MaxWidth    int
	Logger      *slog.Logger
}

func NewDetector(c oracle.Completer, opts DetectorOptions) *Detector {
	d := &Detector{oracle: c, maxElements: opts.MaxElements, maxWidth: opts.MaxWidth, logger: opts.Logger}
	if d.maxElements <= 0 {
		d.maxElements = DefaultMaxElements
	}
	if d.maxWidth <= 0 {
		d.maxWidth = DefaultMaxWidth
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

type detectedElement struct {
	Label      string    `json:"label"`
	Type       string    `json:"type"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	BBox       []float64 `json:"bbox"`
	Confidence float64   `json:"confidence"`
}

type detectResponse struct {
	Elements []detectedElement `json:"elements"`
}

// Detect returns the elements found in the PNG screenshot, in screen
// coordinates, numbered from 1.
func (d *Detector) Detect(ctx context.Context, screenshot []byte) ([]model.ScreenElement, error) {
	img, err := png.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	scaled, scale := Downscale(img, d.maxWidth)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	b := scaled.Bounds()
	text, err := d.oracle.Complete(ctx, oracle.Request{
		System: detectSystem,
		Prompt: detectPrompt(b.Dx(), b.Dy(), d.maxElements),
		Image:  buf.Bytes(),
	})
	if err != nil {
		return nil, fmt.Errorf("vision oracle: %w", err)
	}

	var resp detectResponse
	if err := oracle.DecodeJSON(text, &resp); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	var out []model.ScreenElement
	for _, e := range resp.Elements {
		if len(out) == d.maxElements {
			break
		}
		el := model.ScreenElement{
			ID:         len(out) + 1,
			Label:      strings.TrimSpace(e.Label),
			X:          rescale(e.X, scale),
			Y:          rescale(e.Y, scale),
			Type:       elementType(e.Type),
			Confidence: model.NormalizeConfidence(e.Confidence),
		}
		if len(e.BBox) == 4 {
			for i, v := range e.BBox {
				el.BBox[i] = rescale(v, scale)
			}
		}
		if !image.Pt(el.X, el.Y).In(bounds) {
			d.logger.Debug("dropping off-screen element", "label", el.Label, "x", el.X, "y", el.Y)
			continue
		}
		out = append(out, el)
	}
	d.logger.Info("detected elements", "count", len(out))
	return out, nil
}

func elementType(s string) model.ElementType {
	if strings.EqualFold(strings.TrimSpace(s), string(model.ElementText)) {
		return model.ElementText
	}
	return model.ElementClickable
}

func rescale(v, scale float64) int {
	return int(math.Round(v * scale))
}

// Downscale shrinks img to at most maxWidth pixels wide, keeping the aspect
// ratio. It returns the image and the factor that maps its coordinates back
// to the original.
func Downscale(img image.Image, maxWidth int) (image.Image, float64) {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img, 1
	}
	scale := float64(b.Dx()) / float64(maxWidth)
	h := int(math.Round(float64(b.Dy()) / scale))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, scale
}
