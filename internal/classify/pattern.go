package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mj1618/eva/internal/model"
)

// Example is a labelled phrase the pattern classifier compares against.
type Example struct {
	Pattern  string
	Category model.Category
}

// DefaultExamples is the built-in phrase set for the legacy categories.
var DefaultExamples = []Example{
	{"open application", model.CategoryOpenApp}, {"launch program", model.CategoryOpenApp},
	{"start software", model.CategoryOpenApp}, {"run app", model.CategoryOpenApp},
	{"open app", model.CategoryOpenApp}, {"open chrome", model.CategoryOpenApp},
	{"launch spotify", model.CategoryOpenApp},

	{"close application", model.CategoryCloseApp}, {"close this", model.CategoryCloseApp},
	{"close window", model.CategoryCloseApp}, {"exit application", model.CategoryCloseApp},
	{"quit app", model.CategoryCloseApp},

	{"open file", model.CategoryFileFolder}, {"open folder", model.CategoryFileFolder},
	{"open document", model.CategoryFileFolder}, {"launch file", model.CategoryFileFolder},
	{"open my documents", model.CategoryFileFolder}, {"open downloads folder", model.CategoryFileFolder},
	{"open desktop", model.CategoryFileFolder}, {"show file", model.CategoryFileFolder},
	{"browse to folder", model.CategoryFileFolder}, {"open pictures", model.CategoryFileFolder},
	{"open videos folder", model.CategoryFileFolder}, {"open music", model.CategoryFileFolder},
	{"show folder", model.CategoryFileFolder}, {"browse file", model.CategoryFileFolder},

	{"type text", model.CategoryTypeText}, {"write something", model.CategoryTypeText},
	{"enter text", model.CategoryTypeText},

	{"click on something", model.CategoryMouseClick}, {"click here", model.CategoryMouseClick},
	{"right click", model.CategoryMouseRightClick}, {"double click", model.CategoryMouseDoubleClick},

	{"maximize window", model.CategoryWindowAction}, {"minimize window", model.CategoryWindowAction},
	{"fullscreen mode", model.CategoryWindowAction},

	{"take screenshot", model.CategorySystem}, {"lock screen", model.CategorySystem},

	{"copy", model.CategoryKeyboard}, {"paste", model.CategoryKeyboard},
	{"save", model.CategoryKeyboard}, {"undo", model.CategoryKeyboard},

	{"open app and search", model.CategoryAppWithAction}, {"launch app and type", model.CategoryAppWithAction},
	{"open app and play", model.CategoryAppWithAction}, {"start app and compose", model.CategoryAppWithAction},

	{"play music", model.CategoryMediaControl}, {"play video", model.CategoryMediaControl},
	{"stream music", model.CategoryMediaControl}, {"stream video", model.CategoryMediaControl},

	{"send whatsapp to", model.CategorySendMessage}, {"send message to", model.CategorySendMessage},
	{"whatsapp to", model.CategorySendMessage}, {"email to", model.CategorySendMessage},
	{"post on social", model.CategorySendMessage}, {"message to", model.CategorySendMessage},
	{"whatsapp mom", model.CategorySendMessage}, {"email john", model.CategorySendMessage},

	{"search for something", model.CategoryWebSearch}, {"google something", model.CategoryWebSearch},
	{"youtube search", model.CategoryWebSearch}, {"open youtube", model.CategoryWebSearch},
	{"profile work search python", model.CategoryWebSearch}, {"with profile personal search", model.CategoryWebSearch},
	{"chrome profile dev open youtube", model.CategoryWebSearch}, {"open gmail", model.CategoryWebSearch},
	{"go to facebook", model.CategoryWebSearch}, {"search amazon", model.CategoryWebSearch},
}

// PatternClassifier picks the category of the most similar example phrase.
type PatternClassifier struct {
	examples []Example
	logger   *slog.Logger
}

// NewPatternClassifier uses DefaultExamples when examples is empty.
func NewPatternClassifier(examples []Example, logger *slog.Logger) *PatternClassifier {
	if len(examples) == 0 {
		examples = DefaultExamples
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternClassifier{examples: examples, logger: logger}
}

func (p *PatternClassifier) Family() Family { return FamilyPattern }

// Classify returns the first example with the highest similarity. Ties keep
// the earlier example.
func (p *PatternClassifier) Classify(_ context.Context, text string) (model.Classification, error) {
	if err := checkLength(text); err != nil {
		return model.Classification{}, err
	}
	var (
		best  *Example
		score float64
	)
	for i := range p.examples {
		if s := Similarity(text, p.examples[i].Pattern); s > score {
			best, score = &p.examples[i], s
		}
	}
	if best == nil {
		return model.Classification{}, ErrNoMatch
	}
	p.logger.Debug("pattern match", "input", text, "pattern", best.Pattern, "score", score)
	return model.Classification{
		Category:   best.Category,
		Confidence: score,
		Source:     string(FamilyPattern),
	}, nil
}

// Similarity is the share of a's words found in b, over the longer word
// count, plus 0.1 for each position where both have the same word. The
// result is capped at 1.
func Similarity(a, b string) float64 {
	w1, w2 := strings.Fields(strings.ToLower(a)), strings.Fields(strings.ToLower(b))
	longest := max(len(w1), len(w2))
	if longest == 0 {
		return 0
	}
	inB := make(map[string]bool, len(w2))
	for _, w := range w2 {
		inB[w] = true
	}
	matches := 0
	for _, w := range w1 {
		if inB[w] {
			matches++
		}
	}
	score := float64(matches) / float64(longest)
	for i := 0; i < min(len(w1), len(w2)); i++ {
		if w1[i] == w2[i] {
			score += 0.1
		}
	}
	return min(1.0, score)
}
