package notify

import (
	"strings"
	"unicode/utf8"
)

// MaxTelegramText is the Bot API limit for a single message.
const MaxTelegramText = 4096

var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// EscapeMarkdown escapes the legacy Markdown metacharacters so untrusted text
// renders literally outside an entity.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// CodeSafe prepares text for an inline or pre code entity, where nothing can
// be escaped and a backtick would close the entity.
func CodeSafe(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// Clip shortens s to at most limit runes, marking the cut with an ellipsis.
func Clip(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
