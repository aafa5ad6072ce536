package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mj1618/eva/internal/extract"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/oracle"
)

const semanticPrompt = `You are a command classifier for a voice assistant.

Analyze this command and return ONLY a JSON response.

CATEGORIES:
- APP_LAUNCH: Opening applications (open chrome, launch spotify, start notepad)
- SYSTEM_ACTION: Volume, brightness, power (set volume to 50, increase brightness, mute)
- IN_APP_ACTION: Actions inside apps (play music, pause, send message, click button, next song, close)
- WEB_ACTION: Search and navigation (search for python, go to youtube, look up weather)

USER COMMAND: %q

Return ONLY valid JSON (no explanation):
{"category": "CATEGORY", "confidence": 0.95, "action": "action_name"}

Examples:
1. "play music" → {"category": "IN_APP_ACTION", "confidence": 0.95, "action": "play"}
2. "set volume to 50" → {"category": "SYSTEM_ACTION", "confidence": 0.95, "action": "set_volume", "subcategory": "volume"}
3. "search for python" → {"category": "WEB_ACTION", "confidence": 0.9, "action": "search"}
4. "open chrome" → {"category": "APP_LAUNCH", "confidence": 0.95, "action": "launch"}
5. "pause" → {"category": "IN_APP_ACTION", "confidence": 0.95, "action": "pause"}
6. "next track" → {"category": "IN_APP_ACTION", "confidence": 0.9, "action": "next"}
7. "send whatsapp message" → {"category": "IN_APP_ACTION", "confidence": 0.9, "action": "send"}
8. "close window" → {"category": "IN_APP_ACTION", "confidence": 0.95, "action": "close"}
`

// SemanticClassifier asks an LLM for one of the semantic categories. Any
// oracle failure yields the keyword fallback instead of an error.
type SemanticClassifier struct {
	oracle oracle.Completer
	logger *slog.Logger
}

func NewSemanticClassifier(c oracle.Completer, logger *slog.Logger) *SemanticClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticClassifier{oracle: c, logger: logger}
}

func (s *SemanticClassifier) Family() Family { return FamilySemantic }

type semanticResponse struct {
	Category    string         `json:"category"`
	Confidence  float64        `json:"confidence"`
	Action      string         `json:"action"`
	Subcategory string         `json:"subcategory"`
	Entities    map[string]any `json:"entities"`
}

func (s *SemanticClassifier) Classify(ctx context.Context, text string) (model.Classification, error) {
	if err := checkLength(text); err != nil {
		return model.Classification{}, err
	}

	answer, err := s.oracle.Complete(ctx, oracle.Request{
		Prompt:      fmt.Sprintf(semanticPrompt, text),
		Temperature: 0.2,
	})
	if err != nil {
		switch {
		case oracle.IsQuota(err):
			s.logger.Warn("classifier quota exceeded, using keyword fallback", "err", err)
		case oracle.IsTimeout(err):
			s.logger.Warn("classifier timed out, using keyword fallback", "err", err)
		default:
			s.logger.Error("classifier failed, using keyword fallback", "err", err)
		}
		return Fallback(text), nil
	}

	var resp semanticResponse
	if err := oracle.DecodeJSON(answer, &resp); err != nil {
		s.logger.Warn("invalid classifier JSON, using keyword fallback", "err", err, "response", answer)
		return Fallback(text), nil
	}
	category, ok := model.ParseCategory(resp.Category)
	if !ok || !category.IsSemantic() {
		s.logger.Warn("invalid category, using keyword fallback", "category", resp.Category)
		return Fallback(text), nil
	}

	c := model.Classification{
		Category:    category,
		Confidence:  model.NormalizeConfidence(resp.Confidence),
		Action:      strings.TrimSpace(resp.Action),
		Subcategory: strings.ToLower(strings.TrimSpace(resp.Subcategory)),
		Entities:    stringify(resp.Entities),
		Source:      string(FamilySemantic),
	}
	enrich(&c, text)
	s.logger.Info("classified", "input", text, "category", c.Category, "confidence", c.Percent())
	return c, nil
}

// enrich fills the entities the direct router reads from the raw command.
func enrich(c *model.Classification, text string) {
	if c.Entities == nil {
		c.Entities = map[string]string{}
	}
	if c.Action != "" {
		if _, ok := c.Entities["action"]; !ok {
			c.Entities["action"] = c.Action
		}
	}
	switch c.Category {
	case model.CategoryAppLaunch:
		if name, ok := extract.LaunchedApp(text); ok && c.Entities["app_name"] == "" {
			c.Entities["app_name"] = name
		}
	case model.CategorySystemAction:
		if n, ok := extract.FirstNumber(text); ok && c.Entities["value"] == "" {
			c.Entities["value"] = strconv.Itoa(n)
		}
	}
	if len(c.Entities) == 0 {
		c.Entities = nil
	}
}

func stringify(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch x := v.(type) {
		case nil:
		case string:
			out[k] = x
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}
