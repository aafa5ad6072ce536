package model

// ElementType distinguishes interactive elements from static text.
type ElementType string

const (
	ElementClickable ElementType = "clickable"
	ElementText      ElementType = "text"
)

// ScreenElement is a UI element detected on a screenshot by the vision oracle.
// X and Y are the element's center in screen pixels.
type ScreenElement struct {
	ID         int         `yaml:"id"             json:"id"`
	Label      string      `yaml:"label"          json:"label"`
	X          int         `yaml:"x"              json:"x"`
	Y          int         `yaml:"y"              json:"y"`
	Type       ElementType `yaml:"type"           json:"type"`
	Confidence float64     `yaml:"confidence"     json:"confidence"`
	BBox       [4]int      `yaml:"bbox,omitempty" json:"bbox,omitempty"` // x1, y1, x2, y2
}

// Result is the outcome of routing a command.
type Result struct {
	Success bool   `yaml:"success"           json:"success"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
	Error   string `yaml:"error,omitempty"   json:"error,omitempty"`
}

// OK returns a successful Result.
func OK(msg string) Result { return Result{Success: true, Message: msg} }

// Fail returns a failed Result carrying err's message.
func Fail(err error) Result { return Result{Success: false, Error: err.Error()} }

// Failf returns a failed Result with the given message.
func Failf(msg string) Result { return Result{Success: false, Error: msg} }
