package eco

import "strings"

// Explain renders the fixed explanation template for a label.
func Explain(label Label, ev Evidence) string {
	pos := strings.Join(ev.Positive, ", ")
	neg := strings.Join(ev.Negative, ", ")

	switch label {
	case LabelHigh:
		if pos == "" {
			pos = "eco-friendly terms"
		}
		return "This product is likely sustainable because it mentions: " + pos + "."
	case LabelLow:
		if neg == "" {
			neg = "several risk factors"
		}
		return "This product may have a higher environmental impact due to: " + neg + "."
	default:
		if ev.Empty() {
			return "This product shows mixed signals."
		}
		return "This product shows mixed signals — positive indicators: " + pos + "; concerns: " + neg + "."
	}
}
