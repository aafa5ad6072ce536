// Package extract turns a raw command and its category into an entity bag.
//
// Extraction never fails: a slot that cannot be filled stays empty, and the
// step generator treats empty slots as "skip the optional part".
package extract

import (
	"strings"

	"github.com/mj1618/eva/internal/model"
)

// input is the normalized command every rule works on.
type input struct {
	raw   string
	lower string
	words []string
}

type rule func(in input, e *model.Entities)

// rules is the static category registry. It is read-only after init.
var rules = map[model.Category]rule{
	model.CategoryOpenApp:          openApp,
	model.CategoryCloseApp:         closeApp,
	model.CategoryFileFolder:       fileFolder,
	model.CategoryWebSearch:        webSearch,
	model.CategoryTypeText:         typeText,
	model.CategoryMouseClick:       mouseTarget,
	model.CategoryMouseRightClick:  mouseTarget,
	model.CategoryMouseDoubleClick: mouseTarget,
	model.CategoryWindowAction:     windowAction,
	model.CategoryKeyboard:         keyboard,
	model.CategorySystem:           systemLegacy,
	model.CategoryAppWithAction:    appWithAction,
	model.CategoryMediaControl:     mediaControl,
	model.CategorySendMessage:      sendMessage,

	model.CategoryAppLaunch:    appLaunch,
	model.CategorySystemAction: systemAction,
	model.CategoryInAppAction:  inAppAction,
	model.CategoryWebAction:    webAction,
}

// Extract builds the entity bag for raw under category c. Unknown categories
// yield an empty bag.
func Extract(raw string, c model.Category) model.Entities {
	lower := strings.ToLower(strings.TrimSpace(raw))
	in := input{raw: strings.TrimSpace(raw), lower: lower, words: strings.Fields(lower)}

	var e model.Entities
	if r, ok := rules[c]; ok {
		r(in, &e)
	}
	return e
}

func openApp(in input, e *model.Entities) {
	e.AppName = appName(in.words, []string{"open", "launch", "start", "run"})
	if e.AppName == "" {
		if contains(in.words, "chrome") {
			e.AppName = "chrome"
		} else {
			e.AppName = "current"
		}
	}
}

func closeApp(in input, e *model.Entities) {
	e.AppName = appName(in.words, []string{"close", "exit", "quit"})
	if e.AppName == "" {
		e.AppName = "current"
	}
}

func fileFolder(in input, e *model.Entities) {
	t := fileTarget(in.words)
	e.IsFileOperation = true
	e.IsKnownFolder = t.known
	e.NeedsSearch = !t.known
	e.TargetType = t.kind
	if t.known {
		e.FilePath = t.name
	} else {
		e.SearchTarget = t.name
	}
}

func webSearch(in input, e *model.Entities) {
	e.ProfileName = profileName(in.lower)
	e.Website, e.SearchQuery = websiteAndQuery(in.lower)
}

func typeText(in input, e *model.Entities) {
	e.TextContent = textAfter(in.words, []string{"type", "write", "enter"}, set("text", "message"))
}

func mouseTarget(in input, e *model.Entities) {
	e.ActionTarget = strings.Join(without(in.words, set("click", "on", "here", "it", "this", "right", "double")), " ")
	if e.ActionTarget == "" {
		e.ActionTarget = "current"
	}
}

func windowAction(in input, e *model.Entities) {
	if contains(in.words, "maximize") || contains(in.words, "fullscreen") {
		e.WindowAction = "maximize"
	} else {
		e.WindowAction = "minimize"
	}
}

var shortcuts = []struct{ word, combo string }{
	{"copy", "ctrl+c"},
	{"paste", "ctrl+v"},
	{"save", "ctrl+s"},
	{"undo", "ctrl+z"},
}

func keyboard(in input, e *model.Entities) {
	for _, s := range shortcuts {
		if contains(in.words, s.word) {
			e.KeyboardShortcut = s.combo
			return
		}
	}
}

func systemLegacy(in input, e *model.Entities) {
	if contains(in.words, "screenshot") || contains(in.words, "capture") {
		e.SystemAction = "screenshot"
	} else {
		e.SystemAction = "lock"
	}
}

func appWithAction(in input, e *model.Entities) {
	idx := index(in.words, "and")
	if idx < 0 {
		return
	}
	e.AppName = appName(in.words[:idx], []string{"open", "launch", "start"})
	e.ActionContent = strings.Join(without(in.words[idx+1:], set("search", "type", "play")), " ")
}

var mediaApps = []string{"spotify", "netflix", "youtube", "vlc"}

func mediaControl(in input, e *model.Entities) {
	e.AppName = "spotify"
	for _, app := range mediaApps {
		if contains(in.words, app) {
			e.AppName = app
			break
		}
	}
	e.MediaQuery = strings.Join(without(in.words, set("play", "stream", "music", "video", e.AppName)), " ")
}

var messageApps = []struct{ keyword, app string }{
	{"whatsapp", "whatsapp"},
	{"email", "outlook"},
	{"social", "facebook"},
	{"twitter", "twitter"},
	{"instagram", "instagram"},
	{"telegram", "telegram"},
}

func sendMessage(in input, e *model.Entities) {
	e.AppName = "whatsapp"
	for _, m := range messageApps {
		if strings.Contains(in.lower, m.keyword) {
			e.AppName = m.app
			break
		}
	}

	idx := index(in.words, "to")
	if idx < 0 || idx == len(in.words)-1 {
		return
	}
	recipient, message := splitMessage(in.words[idx+1:])
	e.Recipient = recipient
	e.MessageContent = message
	e.HasMessageContent = message != ""
}

// splitMessage separates "mom saying hello there" into recipient and message.
// A trailing colon on a word ("mom: hello") also acts as the separator.
func splitMessage(words []string) (recipient, message string) {
	for i, w := range words {
		if i > 0 && (w == "saying" || w == "that") {
			return strings.Join(words[:i], " "), strings.Join(words[i+1:], " ")
		}
		if strings.HasSuffix(w, ":") && i < len(words)-1 {
			head := append(append([]string{}, words[:i]...), strings.TrimSuffix(w, ":"))
			return strings.Join(head, " "), strings.Join(words[i+1:], " ")
		}
	}
	return strings.Join(words, " "), ""
}
