// Package steps holds the static step-template library and the generator that
// turns a template plus an entity bag into a concrete plan.
package steps

import "github.com/mj1618/eva/internal/model"

// Template is an ordered list of abstract steps. String parameters and
// descriptions may carry {slot} placeholders; CONDITIONAL steps mark
// truncation points.
type Template []model.Step

func key(k, desc string) model.Step {
	return model.Step{ActionType: model.ActionPressKey, Params: model.Params{"key": k}, Description: desc}
}

func typeText(text, desc string) model.Step {
	return model.Step{ActionType: model.ActionTypeText, Params: model.Params{"text": text}, Description: desc}
}

func wait(seconds float64, desc string) model.Step {
	return model.Step{ActionType: model.ActionWait, Params: model.Params{"duration": seconds}, Description: desc}
}

func conditional(cond, desc string) model.Step {
	return model.Step{ActionType: model.ActionConditional, Params: model.Params{"condition": cond}, Description: desc}
}

// Named sub-templates. Category templates are composed from these.
var (
	openAppWindows = Template{
		key("win", "Open Start Menu"),
		wait(0.5, "Wait for menu"),
		typeText("{app_name}", "Type: {app_name}"),
		key("enter", "Launch {app_name}"),
		wait(2, "Wait for app to load"),
	}

	searchFileExplorer = Template{
		key("win+e", "Open File Explorer"),
		wait(1.5, "Wait for Explorer"),
		key("ctrl+f", "Focus search box"),
		wait(0.5, "Wait for search box"),
		typeText("{search_target}", "Search for: {search_target}"),
		key("enter", "Execute search"),
		wait(2, "Wait for search results"),
		key("enter", "Open first result"),
	}

	chromeWithProfile = Template{
		key("win", "Open Start Menu"),
		wait(0.5, "Wait for menu"),
		typeText("chrome", "Type Chrome"),
		key("enter", "Launch Chrome"),
		wait(2, "Wait for Chrome"),
		{ActionType: model.ActionScreenAnalysis, Params: model.Params{"profile_name": "{profile_name}"}, Description: "Select profile: {profile_name}"},
		wait(1, "Profile loaded"),
	}

	navigateToWebsite = Template{
		key("ctrl+l", "Focus address bar"),
		typeText("{website}", "Go to: {website}"),
		key("enter", "Navigate"),
		wait(2.5, "Wait for page load"),
	}

	searchOnPage = Template{
		key("/", "Focus search"),
		typeText("{search_query}", "Type: {search_query}"),
		key("enter", "Search"),
		wait(2, "Wait for results"),
	}

	openChatContact = Template{
		key("ctrl+n", "New chat"),
		wait(1, "Wait for search"),
		typeText("{recipient}", "Search: {recipient}"),
		wait(1, "Wait for results"),
		key("enter", "Open chat"),
		wait(1, "Chat opened"),
	}

	typeAndSendMessage = Template{
		typeText("{message_content}", "Type message"),
		key("enter", "Send message"),
	}
)

// SubTemplates exposes the named building blocks, keyed by name.
var SubTemplates = map[string]Template{
	"open_app_windows":      openAppWindows,
	"search_file_explorer":  searchFileExplorer,
	"chrome_with_profile":   chromeWithProfile,
	"navigate_to_website":   navigateToWebsite,
	"search_on_page":        searchOnPage,
	"open_chat_contact":     openChatContact,
	"type_and_send_message": typeAndSendMessage,
}

func compose(parts ...Template) Template {
	var out Template
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// library maps each category to its template. Composition happens once, here.
var library = map[model.Category]Template{
	model.CategoryOpenApp:    openAppWindows,
	model.CategoryAppLaunch:  openAppWindows,
	model.CategoryCloseApp:   {key("alt+f4", "Close window")},
	model.CategoryFileFolder: searchFileExplorer,
	model.CategoryWebSearch: compose(
		chromeWithProfile,
		navigateToWebsite,
		Template{conditional("search_query_exists", "Check search needed")},
		searchOnPage,
	),
	model.CategoryWebAction: compose(
		navigateToWebsite,
		Template{conditional("search_query_exists", "Check search needed")},
		searchOnPage,
	),
	model.CategoryTypeText: {typeText("{text_content}", "Type: {text_content}")},
	model.CategoryMouseClick: {
		{ActionType: model.ActionMouseClick, Params: model.Params{"target": "{action_target}"}, Description: "Click: {action_target}"},
	},
	model.CategoryMouseRightClick:  {{ActionType: model.ActionMouseRightClick, Params: model.Params{}, Description: "Right click"}},
	model.CategoryMouseDoubleClick: {{ActionType: model.ActionMouseDoubleClick, Params: model.Params{}, Description: "Double click"}},
	model.CategoryWindowAction:     {key("win+up", "Window action: {window_action}")},
	model.CategoryKeyboard:         {key("{keyboard_shortcut}", "Press: {keyboard_shortcut}")},
	model.CategorySystem: {
		{ActionType: model.ActionSystem, Params: model.Params{"action": "{system_action}"}, Description: "System: {system_action}"},
	},
	model.CategoryAppWithAction: compose(
		openAppWindows,
		Template{
			wait(1, "Wait for app ready"),
			conditional("has_search_query", "Check action type"),
			key("ctrl+l", "Focus search/input"),
			typeText("{action_content}", "Enter: {action_content}"),
			key("enter", "Execute"),
		},
	),
	model.CategoryMediaControl: compose(
		openAppWindows,
		Template{
			wait(2, "Wait for media app"),
			key("ctrl+l", "Focus search"),
			typeText("{media_query}", "Search: {media_query}"),
			key("enter", "Play"),
		},
	),
	model.CategorySendMessage: compose(
		openAppWindows,
		Template{wait(3, "Wait for app to load")},
		openChatContact,
		Template{conditional("has_message_content", "Check if message provided")},
		typeAndSendMessage,
	),
}

// Lookup returns the template registered for c.
func Lookup(c model.Category) (Template, bool) {
	t, ok := library[c]
	return t, ok
}

// Categories returns every category with a registered template.
func Categories() []model.Category {
	out := make([]model.Category, 0, len(library))
	for c := range library {
		out = append(out, c)
	}
	return out
}
