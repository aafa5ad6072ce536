package classify

import (
	"strings"

	"github.com/mj1618/eva/internal/extract"
	"github.com/mj1618/eva/internal/model"
)

// FallbackConfidence is the confidence of every keyword classification.
const FallbackConfidence = 0.5

// placeholderApp stands in for an app name the command did not mention.
const placeholderApp = "app"

var (
	launchWords = []string{"open", "launch", "start", "run"}
	webWords    = []string{"search", "google", "look up", "go to", "browse", "website", "youtube"}
)

// Fallback classifies text by keywords alone. It is deterministic and used
// whenever the semantic oracle is unavailable or answers badly.
func Fallback(text string) model.Classification {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(lower)
	c := model.Classification{
		Confidence: FallbackConfidence,
		Source:     "fallback",
	}

	switch {
	case extract.InferSystemAction(lower) != "":
		c.Category = model.CategorySystemAction
		c.Subcategory = extract.InferSystemAction(lower)
		c.Action = c.Subcategory
	case hasAny(lower, webWords):
		c.Category = model.CategoryWebAction
		c.Action = "search"
	case hasWord(words, launchWords):
		c.Category = model.CategoryAppLaunch
		c.Action = "launch"
		name, ok := extract.LaunchedApp(lower)
		if !ok {
			name = placeholderApp
		}
		c.Entities = map[string]string{"app_name": name}
	default:
		c.Category = model.CategoryInAppAction
		c.Action = extract.InferInAppAction(words)
		if c.Action == "" {
			c.Action = "unknown"
		}
	}
	return c
}

func hasAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if extract.HasPhrase(s, k) {
			return true
		}
	}
	return false
}

func hasWord(words, keywords []string) bool {
	for _, w := range words {
		for _, k := range keywords {
			if w == k {
				return true
			}
		}
	}
	return false
}
