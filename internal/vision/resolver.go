package vision

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/oracle"
)

// Mode selects which response protocol the resolver prompts for.
type Mode string

const (
	// ModeSelect asks for an element id: {"id": N, "reason": "..."}.
	ModeSelect Mode = "select"
	// ModeFilter asks for coordinates: {"element_id", "x", "y", "operation", "confidence"}.
	ModeFilter Mode = "filter"
)

// ParseMode validates a configured resolver mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSelect, "":
		return ModeSelect, nil
	case ModeFilter:
		return ModeFilter, nil
	default:
		return "", fmt.Errorf("unknown resolver mode: %q (expected select or filter)", s)
	}
}

// Operations a resolved point may carry.
const (
	OpClick       = "click"
	OpDoubleClick = "double_click"
	OpRightClick  = "right_click"
)

// Target describes what to click.
type Target struct {
	Label       string // what we're looking for, e.g. "Send"
	Description string // the step description, for context
}

// Point is a resolved click target in screen coordinates.
type Point struct {
	X, Y      int
	Operation string
	ElementID int // 0 when the oracle answered with bare coordinates
}

// Resolver picks one element from a detected list using the vision oracle.
type Resolver struct {
	oracle oracle.Completer
	mode   Mode
	logger *slog.Logger
}

func NewResolver(c oracle.Completer, mode Mode, logger *slog.Logger) *Resolver {
	if mode == "" {
		mode = ModeSelect
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{oracle: c, mode: mode, logger: logger}
}

// decision accepts both response protocols.
type decision struct {
	ID         *int     `json:"id"`
	ElementID  *int     `json:"element_id"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Operation  string   `json:"operation"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
}

// Resolve returns the point to act on, or false when there is no target:
// no elements, an oracle error, an unparseable answer, id -1, an unknown id,
// or a zero-confidence origin.
func (r *Resolver) Resolve(ctx context.Context, target Target, elements []model.ScreenElement) (Point, bool) {
	if len(elements) == 0 {
		return Point{}, false
	}

	prompt := selectPrompt(target, elements)
	if r.mode == ModeFilter {
		prompt = filterPrompt(target, elements)
	}
	text, err := r.oracle.Complete(ctx, oracle.Request{Prompt: prompt})
	if err != nil {
		r.logger.Warn("resolver oracle failed", "target", target.Label, "err", err)
		return Point{}, false
	}
	return r.decide(text, elements)
}

func (r *Resolver) decide(text string, elements []model.ScreenElement) (Point, bool) {
	var d decision
	if err := oracle.DecodeJSON(text, &d); err != nil {
		r.logger.Warn("unparseable resolver response", "err", err)
		return Point{}, false
	}

	if d.X != nil && d.Y != nil {
		x, y := int(math.Round(*d.X)), int(math.Round(*d.Y))
		if x == 0 && y == 0 && d.Confidence == 0 {
			r.logger.Warn("resolver found no confident match")
			return Point{}, false
		}
		p := Point{X: x, Y: y, Operation: normalizeOperation(d.Operation)}
		if !r.anchor(&p, d.ElementID, elements) {
			return Point{}, false
		}
		r.logger.Info("resolved coordinates", "x", p.X, "y", p.Y, "operation", p.Operation, "confidence", d.Confidence)
		return p, true
	}

	id := d.ID
	if id == nil {
		id = d.ElementID
	}
	if id == nil || *id < 0 {
		r.logger.Warn("resolver found no confident match", "reason", d.Reason)
		return Point{}, false
	}
	for _, e := range elements {
		if e.ID == *id {
			r.logger.Info("resolved element", "id", e.ID, "label", e.Label, "x", e.X, "y", e.Y)
			return Point{X: e.X, Y: e.Y, Operation: normalizeOperation(d.Operation), ElementID: e.ID}, true
		}
	}
	r.logger.Warn("resolver chose unknown element", "id", *id, "reason", d.Reason)
	return Point{}, false
}

func normalizeOperation(op string) string {
	switch strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(op))) {
	case "double_click", "doubleclick", "dblclick":
		return OpDoubleClick
	case "right_click", "rightclick", "context_click":
		return OpRightClick
	default:
		return OpClick
	}
}

// hitMargin is the half size of the box around an element without a bbox.
const hitMargin = 40

// anchor ties a coordinate answer to a detected element. A named element must
// exist, and a point outside it moves to the element's center. A point with
// no element must fall inside one.
func (r *Resolver) anchor(p *Point, id *int, elements []model.ScreenElement) bool {
	pt := image.Pt(p.X, p.Y)
	if id != nil {
		for _, e := range elements {
			if e.ID != *id {
				continue
			}
			p.ElementID = e.ID
			if !pt.In(hitBox(e)) {
				r.logger.Warn("resolver point outside its element, using center", "id", e.ID, "x", p.X, "y", p.Y)
				p.X, p.Y = e.X, e.Y
			}
			return true
		}
		r.logger.Warn("resolver chose unknown element", "id", *id)
		return false
	}
	for _, e := range elements {
		if pt.In(hitBox(e)) {
			p.ElementID = e.ID
			return true
		}
	}
	r.logger.Warn("resolver point outside every element", "x", p.X, "y", p.Y)
	return false
}

func hitBox(e model.ScreenElement) image.Rectangle {
	if b := e.BBox; b[2] > b[0] && b[3] > b[1] {
		return image.Rect(b[0], b[1], b[2]+1, b[3]+1)
	}
	return image.Rect(e.X-hitMargin, e.Y-hitMargin, e.X+hitMargin+1, e.Y+hitMargin+1)
}
