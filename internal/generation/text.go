package generation

import (
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")

// UnwrapCodeBlock returns the contents of the first fenced code block in
// text, or text itself when it has none. Chat-style backends that cannot be
// forced into a JSON response mode use it before handing the payload on.
func UnwrapCodeBlock(text string) string {
	matches := codeBlockRe.FindStringSubmatch(text)
	if len(matches) == 0 {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(matches[2])
}
