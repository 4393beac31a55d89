package nlp

import (
	"strings"
)

// SplitSentences breaks text into sentences on terminal punctuation,
// including the Urdu full stop. Quotation marks trailing a terminator stay
// with their sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if isTerminator(r) {
			// Keep a closing quote attached to the sentence it ends
			if i+1 < len(runes) && isClosingQuote(runes[i+1]) {
				continue
			}
			flush()
		}
	}
	flush()

	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '۔': // '۔' is the Urdu full stop
		return true
	}
	return false
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', '”', '’':
		return true
	}
	return false
}
