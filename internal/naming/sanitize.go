// Package naming turns extracted mill-sheet metadata into safe, unique
// output filenames.
package naming

import (
	"regexp"
	"strings"
)

const maxFragmentLen = 50 // runes, not bytes; fragments are often Japanese

var (
	reLineBreaks  = regexp.MustCompile(`[\r\n]+`)
	reWhitespace  = regexp.MustCompile(`\s+`)
	reUnderscores = regexp.MustCompile(`_+`)
	invalidChars  = strings.NewReplacer(
		`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
		`"`, "_", "<", "_", ">", "_", "|", "_",
	)
)

// Sanitize normalizes text into a filename-safe fragment: line breaks
// become spaces, reserved filesystem characters and whitespace runs
// become single underscores, leading/trailing underscores are stripped,
// and the result is capped at 50 runes. Empty input yields "".
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	s := reLineBreaks.ReplaceAllString(text, " ")
	s = invalidChars.Replace(s)
	s = reWhitespace.ReplaceAllString(s, "_")
	s = reUnderscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if runes := []rune(s); len(runes) > maxFragmentLen {
		s = string(runes[:maxFragmentLen])
	}
	return s
}
