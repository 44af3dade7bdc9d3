package eco

import "strings"

// containsTerm reports whether term occurs in text as a whole word or whole
// phrase. Both sides are compared lower-cased; a boundary is any byte that is
// not a letter or digit, so "fair-trade" matches inside "eco, fair-trade" but
// "air" does not match inside "repair".
func containsTerm(text, term string) bool {
	text = strings.ToLower(text)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	for start := 0; start <= len(text)-len(term); {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		if (idx == 0 || !isWordChar(text[idx-1])) && (end == len(text) || !isWordChar(text[end])) {
			return true
		}
		start = idx + 1
	}
	return false
}

// anyContainsTerm checks each list element on its own so a term can never
// straddle two elements.
func anyContainsTerm(list []string, term string) bool {
	for _, s := range list {
		if containsTerm(s, term) {
			return true
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
