package sentence

import (
	"strings"
	"unicode"
)

// removeFullStops drops full stops that are not part of an acronym. A stop
// is kept when it is within the first two characters or another stop sits
// two characters before or after it, as in "u.s.a.".
func removeFullStops(s string) string {
	runes := []rune(s)
	var out strings.Builder
	for i, r := range runes {
		if r != '.' {
			out.WriteRune(r)
			continue
		}
		keep := i < 2 ||
			runes[i-2] == '.' ||
			(i+2 < len(runes) && runes[i+2] == '.')
		if keep {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// Words splits a sentence into lowercase search words.
func Words(sentence string) []string {
	sentence = removeFullStops(sentence)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '.' {
			return r
		}
		return ' '
	}, sentence)
	return strings.Fields(strings.ToLower(cleaned))
}
