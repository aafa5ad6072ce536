// Package classify assigns an intent category to a command. Two classifiers
// are provided: a pattern matcher over example phrases and an LLM-backed
// semantic classifier with a keyword fallback.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mj1618/eva/internal/model"
)

// Classifier produces a Classification for a raw command.
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Classification, error)
	// Family reports which router family the categories belong to.
	Family() Family
}

// Family distinguishes the two classifier generations. It selects the router.
type Family string

const (
	FamilyPattern  Family = "pattern"
	FamilySemantic Family = "semantic"
)

// ParseFamily validates a configured classifier name.
func ParseFamily(s string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(s))) {
	case FamilyPattern:
		return FamilyPattern, nil
	case FamilySemantic, "":
		return FamilySemantic, nil
	default:
		return "", fmt.Errorf("unknown classifier: %q (expected pattern or semantic)", s)
	}
}

var (
	// ErrNoMatch is returned when no example phrase shares a word with the command.
	ErrNoMatch = errors.New("no match found for command")
	// ErrTooShort is returned for empty or one-character commands.
	ErrTooShort = errors.New("command too short")
)

func checkLength(text string) error {
	if len(strings.TrimSpace(text)) < 2 {
		return ErrTooShort
	}
	return nil
}
