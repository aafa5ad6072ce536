package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mj1618/eva/internal/model"
)

var (
	launchPattern = regexp.MustCompile(`(?i)(?:open|launch|start)\s+(\w+)`)
	valuePattern  = regexp.MustCompile(`(\d+)\s*%?`)
	typePattern   = regexp.MustCompile(`(?i)type\s+(.+)`)
)

func appLaunch(in input, e *model.Entities) {
	if name, ok := LaunchedApp(in.raw); ok {
		e.AppName = name
	}
}

func systemAction(in input, e *model.Entities) {
	if n, ok := FirstNumber(in.raw); ok {
		e.Value = strconv.Itoa(n)
	}
	e.SystemAction = InferSystemAction(in.lower)
}

func inAppAction(in input, e *model.Entities) {
	e.Action = InferInAppAction(in.words)
	if text, ok := TypedText(in.raw); ok {
		e.TextContent = text
	}
}

func webAction(in input, e *model.Entities) {
	e.Website, e.SearchQuery = websiteAndQuery(in.lower)
}

// LaunchedApp returns the word following open, launch or start in raw.
func LaunchedApp(raw string) (string, bool) {
	m := launchPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	name := NormalizeAppName(m[1])
	return name, name != ""
}

// NormalizeAppName lowercases name and drops a trailing period left over from
// transcription.
func NormalizeAppName(name string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(name)), ".")
}

// FirstNumber returns the first run of digits in text.
func FirstNumber(text string) (int, bool) {
	m := valuePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TypedText returns the text following "type" in a command such as
// "type hello world".
func TypedText(raw string) (string, bool) {
	m := typePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	text := strings.TrimSpace(m[1])
	return text, text != ""
}

var systemKeywords = []struct{ keyword, action string }{
	{"unmute", "unmute"},
	{"mute", "mute"},
	{"volume", "volume"},
	{"sound", "volume"},
	{"brightness", "brightness"},
	{"shutdown", "shutdown"},
	{"shut down", "shutdown"},
	{"power off", "shutdown"},
	{"restart", "restart"},
	{"reboot", "restart"},
	{"sleep", "sleep"},
	{"suspend", "sleep"},
	{"lock", "lock"},
}

// InferSystemAction names the system subcategory mentioned in text, or "".
func InferSystemAction(text string) string {
	for _, k := range systemKeywords {
		if HasPhrase(text, k.keyword) {
			return k.action
		}
	}
	return ""
}

var inAppKeywords = []struct{ keyword, action string }{
	{"close", "close"},
	{"click", "click"},
	{"type", "type"},
	{"pause", "pause"},
	{"play", "play"},
	{"next", "next"},
	{"previous", "previous"},
	{"send", "send"},
}

// InferInAppAction picks an in-app action tag from keywords in words.
func InferInAppAction(words []string) string {
	for _, k := range inAppKeywords {
		if contains(words, k.keyword) {
			return k.action
		}
	}
	return ""
}
