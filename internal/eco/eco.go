// Package eco is the sustainability engine: rule scoring, keyword evidence,
// explanations, cart aggregation and greener-alternative ranking. Everything
// here is pure and safe for concurrent use.
package eco

import "strings"

type Label string

const (
	LabelHigh   Label = "high"
	LabelMedium Label = "medium"
	LabelLow    Label = "low"
)

// Labels lists every label in tie-break order: when two labels are equally
// likely the earlier one wins.
var Labels = []Label{LabelMedium, LabelHigh, LabelLow}

func ParseLabel(s string) (Label, bool) {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case LabelHigh:
		return LabelHigh, true
	case LabelMedium:
		return LabelMedium, true
	case LabelLow:
		return LabelLow, true
	}
	return "", false
}

// Attributes are the sustainability inputs of a product. Nil lists behave
// like empty ones.
type Attributes struct {
	Materials    []string `json:"materials"`
	Packaging    string   `json:"packaging"`
	ShippingType string   `json:"shipping_type"`
	EcoTags      []string `json:"eco_tags"`
}

// Text is the classifier input for a product: description, materials and
// tags joined by spaces, lower-cased.
func Text(description string, a Attributes) string {
	parts := make([]string, 0, 1+len(a.Materials)+len(a.EcoTags))
	if s := strings.TrimSpace(description); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, a.Materials...)
	parts = append(parts, a.EcoTags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
