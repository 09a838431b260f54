package session

import (
	"strings"

	"github.com/rivo/uniseg"
)

// SplitSentences segments text on Unicode sentence boundaries. The UI offers
// the pieces as focus-text candidates for follow-up questions.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var sentence string
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		sentence = strings.TrimSpace(sentence)
		if sentence != "" {
			out = append(out, sentence)
		}
	}
	return out
}
