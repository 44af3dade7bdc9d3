package eco

// Classification is the output of a text classifier. Probabilities sums to 1.
type Classification struct {
	Label         Label             `json:"label"`
	Confidence    float64           `json:"confidence"`
	Probabilities map[Label]float64 `json:"probabilities"`
}

// Classifier labels lower-cased product text. Implementations must be safe
// for concurrent use.
type Classifier interface {
	Classify(text string) Classification
}

// Assessment is everything derived for one product.
type Assessment struct {
	EcoScore      int               `json:"eco_score"`
	Breakdown     Breakdown         `json:"eco_breakdown"`
	Label         Label             `json:"ai_label"`
	Confidence    float64           `json:"ai_confidence"`
	Probabilities map[Label]float64 `json:"probabilities,omitempty"`
	Evidence      Evidence          `json:"ai_keywords"`
	Explanation   string            `json:"explanation"`
	// Degraded is set when no classifier was available and the label is the
	// medium default.
	Degraded bool `json:"degraded,omitempty"`
}

type Assessor struct {
	scorer     *Scorer
	classifier Classifier
}

// NewAssessor accepts a nil classifier; assessments then carry the default
// label and rule scoring keeps working.
func NewAssessor(scorer *Scorer, classifier Classifier) *Assessor {
	if scorer == nil {
		scorer = defaultScorer
	}
	return &Assessor{scorer: scorer, classifier: classifier}
}

func (a *Assessor) Scorer() *Scorer { return a.scorer }

func (a *Assessor) ClassifierAvailable() bool { return a.classifier != nil }

// Assess derives score, breakdown, label, evidence and explanation for a
// product. It never fails.
func (a *Assessor) Assess(description string, attrs Attributes) Assessment {
	out := a.Classify(Text(description, attrs))
	out.EcoScore = a.scorer.Score(attrs)
	out.Breakdown = a.scorer.Breakdown(attrs)
	return out
}

// Classify labels free text and explains the label. Without a classifier it
// returns the medium default with zero confidence and no evidence.
func (a *Assessor) Classify(text string) Assessment {
	if a.classifier == nil {
		ev := Evidence{Positive: []string{}, Negative: []string{}}
		return Assessment{
			Label:       LabelMedium,
			Evidence:    ev,
			Explanation: Explain(LabelMedium, ev),
			Degraded:    true,
		}
	}
	c := a.classifier.Classify(text)
	ev := ExtractEvidence(text)
	return Assessment{
		Label:         c.Label,
		Confidence:    clampUnit(c.Confidence),
		Probabilities: c.Probabilities,
		Evidence:      ev,
		Explanation:   Explain(c.Label, ev),
	}
}

func clampUnit(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
