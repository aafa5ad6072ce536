package steps

import (
	"regexp"

	"github.com/mj1618/eva/internal/model"
)

// conditions maps a CONDITIONAL marker's name to its predicate. When the
// predicate is false the rest of the template is dropped. Only these four
// truncate; markers with any other name are skipped.
var conditions = map[string]func(model.Entities) bool{
	"is_known_folder":     func(e model.Entities) bool { return e.IsKnownFolder },
	"search_query_exists": func(e model.Entities) bool { return e.SearchQuery != "" },
	"has_search_query":    func(e model.Entities) bool { return e.ActionContent != "" },
	"has_message_content": func(e model.Entities) bool { return e.MessageContent != "" },
}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Generate expands the template for category c into a concrete plan using the
// values in e. Unknown categories produce a single EXECUTE step.
func Generate(c model.Category, e model.Entities) model.Plan {
	tmpl, ok := Lookup(c)
	if !ok {
		return model.Plan{{
			ActionType:  model.ActionExecute,
			Params:      model.Params{},
			Description: "Execute: " + string(c),
		}}
	}

	return expand(tmpl, e)
}

func expand(tmpl Template, e model.Entities) model.Plan {
	plan := make(model.Plan, 0, len(tmpl))
	for _, step := range tmpl {
		if step.ActionType == model.ActionConditional {
			holds, known := conditions[step.Params.String("condition", "")]
			if known && !holds(e) {
				break
			}
			continue
		}
		plan = append(plan, substitute(step.Clone(), e))
	}
	return plan
}

func substitute(s model.Step, e model.Entities) model.Step {
	for k, v := range s.Params {
		if str, ok := v.(string); ok {
			s.Params[k] = Fill(str, e)
		}
	}
	s.Description = Fill(s.Description, e)
	return s
}

// Fill replaces every {slot} in text with the slot's value from e. Absent
// values become the empty string; names that are not entity slots are left
// as they are.
func Fill(text string, e model.Entities) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		v, ok := e.Slot(m[1 : len(m)-1])
		if !ok {
			return m
		}
		return v
	})
}
