package eco

import "strings"

var positiveKeywords = []string{
	"recycled", "recyclable", "organic", "biodegradable", "compostable",
	"sustainable", "eco friendly", "eco-friendly", "renewable", "reusable",
	"refillable", "zero waste", "low carbon", "carbon neutral", "fair trade",
	"fair-trade", "ethical", "locally sourced", "local",
}

var negativeKeywords = []string{
	"plastic", "single use", "single-use", "disposable", "synthetic", "toxic",
	"chemical", "non recyclable", "non-recyclable", "landfill", "waste",
	"polluting", "air freight", "air shipped", "fast fashion",
}

// Evidence lists the lexicon terms found in a text, in lexicon order.
type Evidence struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

func (e Evidence) Empty() bool { return len(e.Positive) == 0 && len(e.Negative) == 0 }

// ExtractEvidence does a case-insensitive substring scan. It does not look
// for word boundaries, so "non-recyclable" also reports "recyclable".
func ExtractEvidence(text string) Evidence {
	lower := strings.ToLower(text)
	return Evidence{
		Positive: scan(lower, positiveKeywords),
		Negative: scan(lower, negativeKeywords),
	}
}

func scan(lower string, lexicon []string) []string {
	out := make([]string, 0)
	for _, k := range lexicon {
		if strings.Contains(lower, k) {
			out = append(out, k)
		}
	}
	return out
}
