package service

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// countWords counts whitespace-separated words in a rich-text draft after
// stripping markup tags. Good enough for progress stats; not a tokenizer.
func countWords(content string) int {
	plain := tagPattern.ReplaceAllString(content, " ")
	return len(strings.Fields(plain))
}
