package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var appFiller = set("app", "application", "program")

// appName returns the words following the first trigger present in words,
// without generic filler. Triggers are tried in order.
func appName(words, triggers []string) string {
	return textAfter(words, triggers, appFiller)
}

// textAfter returns the words following the first keyword present in words,
// minus skip words. A keyword whose tail is empty falls through to the next.
func textAfter(words, keywords []string, skip map[string]bool) string {
	for _, kw := range keywords {
		idx := index(words, kw)
		if idx < 0 {
			continue
		}
		if rest := without(words[idx+1:], skip); len(rest) > 0 {
			return strings.Join(rest, " ")
		}
	}
	return ""
}

var fileIndicators = []string{"file", "document", "doc", "pdf", "image", "video", "folder", "directory"}

var knownFolders = []struct{ keyword, path string }{
	{"documents", "~/Documents"},
	{"downloads", "~/Downloads"},
	{"desktop", "~/Desktop"},
	{"pictures", "~/Pictures"},
	{"videos", "~/Videos"},
	{"music", "~/Music"},
}

var fileFiller = set("open", "file", "folder", "document", "my", "the", "launch", "show", "browse", "to")

type fileTargetResult struct {
	name  string
	kind  string
	known bool
}

// fileTarget recognizes a well-known folder or names the file or folder to
// search for. Commands without a file indicator produce an empty result.
func fileTarget(words []string) fileTargetResult {
	isFileOp := false
	for _, ind := range fileIndicators {
		if contains(words, ind) {
			isFileOp = true
			break
		}
	}
	if !isFileOp {
		return fileTargetResult{}
	}
	for _, f := range knownFolders {
		if contains(words, f.keyword) {
			return fileTargetResult{name: f.path, kind: "folder", known: true}
		}
	}
	rest := without(words, fileFiller)
	if len(rest) == 0 {
		return fileTargetResult{}
	}
	kind := "file"
	if contains(words, "folder") || contains(words, "directory") {
		kind = "folder"
	}
	return fileTargetResult{name: strings.Join(rest, " "), kind: kind}
}

var profilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`with chrome profile ([\w\s]+?)(?:\s+(?:search|open|go|and))`),
	regexp.MustCompile(`chrome profile ([\w\s]+?)(?:\s+(?:search|open|go|and))`),
	regexp.MustCompile(`with profile ([\w\s]+?)(?:\s+(?:search|open|go|and))`),
	regexp.MustCompile(`use profile ([\w\s]+?)(?:\s+(?:search|open|go|and))`),
	regexp.MustCompile(`profile ([\w\s]+?)(?:\s+(?:search|open|go|and))`),
}

// profileName returns the browser profile named in lower, or "Default".
func profileName(lower string) string {
	for _, re := range profilePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return "Default"
}

var websites = []struct{ keyword, domain string }{
	{"youtube", "youtube.com"},
	{"google", "google.com"},
	{"gmail", "mail.google.com"},
	{"facebook", "facebook.com"},
	{"twitter", "twitter.com"},
	{"instagram", "instagram.com"},
	{"linkedin", "linkedin.com"},
	{"github", "github.com"},
	{"reddit", "reddit.com"},
	{"amazon", "amazon.com"},
	{"netflix", "netflix.com"},
	{"spotify", "open.spotify.com"},
}

var profilePhrases = []*regexp.Regexp{
	regexp.MustCompile(`with chrome profile [\w\s]+`),
	regexp.MustCompile(`chrome profile [\w\s]+`),
	regexp.MustCompile(`profile [\w\s]+`),
}

var webFiller = set("with", "chrome", "search", "for", "open", "go", "to", "on", "in", "and",
	"youtube", "google", "gmail", "facebook", "profile")

// websiteAndQuery picks the target domain from the keyword table (default
// google.com) and returns what remains of the command as the search query.
func websiteAndQuery(lower string) (website, query string) {
	website = "google.com"
	for _, w := range websites {
		if strings.Contains(lower, w.keyword) {
			website = w.domain
			break
		}
	}
	rest := lower
	for _, re := range profilePhrases {
		rest = re.ReplaceAllString(rest, "")
	}
	return website, strings.Join(without(strings.Fields(rest), webFiller), " ")
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func index(words []string, w string) int {
	for i, x := range words {
		if x == w {
			return i
		}
	}
	return -1
}

func contains(words []string, w string) bool {
	return index(words, w) >= 0
}

func without(words []string, skip map[string]bool) []string {
	var out []string
	for _, w := range words {
		if !skip[w] && w != "" {
			out = append(out, w)
		}
	}
	return out
}

// HasPhrase reports whether phrase occurs in text as whole words, so "lock"
// matches "lock the screen" but not "open clock". Case and punctuation are
// ignored.
func HasPhrase(text, phrase string) bool {
	p := strings.Join(tokens(phrase), " ")
	if p == "" {
		return false
	}
	return strings.Contains(" "+strings.Join(tokens(text), " ")+" ", " "+p+" ")
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
