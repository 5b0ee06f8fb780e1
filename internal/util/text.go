package util

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
)

// fullwidth punctuation normalized to ASCII before prompting
var punctReplacer = strings.NewReplacer(
	"，", ",",
	"。", ".",
	"：", ":",
	"；", ";",
	"？", "?",
	"！", "!",
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// PreprocessText normalizes raw document text before it is handed to the
// generation service: HTML tags and URLs are removed, fullwidth punctuation
// is converted and whitespace runs are collapsed.
func PreprocessText(text string) string {
	if text == "" {
		return ""
	}

	text = htmlTagRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = punctReplacer.Replace(text)
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	return text
}
