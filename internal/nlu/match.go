package nlu

import (
	"strings"
)

// Normalize lowercases text, trims it and collapses internal whitespace runs
// to a single space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// MatchPhrase returns the first intent, in declaration order, owning a phrase
// that occurs in text at word boundaries. Phrases of one intent are tried
// longest first.
//
// Precedence is by declaration order, not by best match: an earlier intent
// with a short matching phrase beats a later intent with a longer one.
func MatchPhrase(text string, v Vocabulary) (Intent, bool) {
	hay := " " + Normalize(text) + " "
	for _, e := range v.entries {
		for _, p := range e.Phrases {
			if strings.Contains(hay, " "+p+" ") {
				return e.Intent, true
			}
		}
	}
	return "", false
}

// MatchSubstring looks for an intent identifier, underscores read as spaces,
// anywhere in text. No word boundary is required. Underscores typed in the
// text are read as spaces too, so "get_system_info" and "get system info"
// are the same.
func MatchSubstring(text string, v Vocabulary) (Intent, bool) {
	text = strings.ReplaceAll(Normalize(text), "_", " ")
	for _, e := range v.entries {
		if strings.Contains(text, strings.ReplaceAll(string(e.Intent), "_", " ")) {
			return e.Intent, true
		}
	}
	return "", false
}

// NormalizeAnswer turns an oracle reply into a candidate identifier.
func NormalizeAnswer(answer string) Intent {
	s := strings.ToLower(strings.TrimSpace(answer))
	s = strings.Trim(s, "'\"`")
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return Intent(s)
}
