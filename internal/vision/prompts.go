package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mj1618/eva/internal/model"
)

const detectSystem = `You detect user-interface elements in desktop screenshots.`

// detectPrompt asks for at most n elements in image pixel coordinates.
func detectPrompt(width, height, n int) string {
	return fmt.Sprintf(`List the interactive and text elements visible in this %dx%d screenshot.

For each element give:
- "label": the visible text, or a short description for icons
- "type": "clickable" for buttons, icons, links and inputs, "text" for readable text
- "x", "y": the pixel center of the element
- "bbox": [x1, y1, x2, y2] pixel bounds
- "confidence": 0.0-1.0

Return at most %d elements, most prominent first.

Return ONLY JSON:
{"elements": [{"label": "Search", "type": "clickable", "x": 640, "y": 40, "bbox": [600, 30, 680, 50], "confidence": 0.9}]}`, width, height, n)
}

// selectPrompt is the id protocol: the oracle answers {"id": N, "reason": "..."}.
func selectPrompt(target Target, elements []model.ScreenElement) string {
	lines := make([]string, 0, len(elements))
	for _, e := range elements {
		lines = append(lines, fmt.Sprintf("%d: '%s' at (%d, %d) [type: %s, conf: %.2f]",
			e.ID, e.Label, e.X, e.Y, e.Type, e.Confidence))
	}
	return fmt.Sprintf(`You are a UI element selector for a desktop automation assistant.

TASK: Select the best UI element to click for this action.

TARGET: %q
ACTION DESCRIPTION: %q

AVAILABLE UI ELEMENTS:
%s

RULES:
1. Return ONLY a JSON object: {"id": N, "reason": "..."}
2. Prefer exact label matches over partial matches
3. Prefer elements with type 'text' if the target is text-based
4. Prefer higher confidence scores
5. If no match is found, return {"id": -1, "reason": "No confident match"}

Return ONLY JSON, no explanation.`, target.Label, target.Description, strings.Join(lines, "\n"))
}

type promptElement struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Type  string `json:"type"`
}

// filterPrompt is the coordinate protocol: the oracle answers with
// {"element_id", "x", "y", "operation", "confidence"}.
func filterPrompt(target Target, elements []model.ScreenElement) string {
	simplified := make([]promptElement, 0, len(elements))
	for _, e := range elements {
		simplified = append(simplified, promptElement{ID: e.ID, Label: e.Label, X: e.X, Y: e.Y, Type: string(e.Type)})
	}
	listing, _ := json.MarshalIndent(simplified, "", "  ")

	step := target.Description
	if target.Label != "" && !strings.Contains(strings.ToLower(step), strings.ToLower(target.Label)) {
		step = strings.TrimSpace(step + " (target: " + target.Label + ")")
	}
	return fmt.Sprintf(`You are filtering UI elements to execute this step: %q

Available elements:
%s

Rank candidates by exact label match first, then by element type matching the
target, then by confidence.

Return ONLY JSON:
{
  "element_id": 5,
  "x": 100,
  "y": 200,
  "operation": "click",
  "confidence": 85
}

Valid operations: click, double_click, right_click
If nothing matches, return {"x": 0, "y": 0, "operation": "click", "confidence": 0}`, step, listing)
}
