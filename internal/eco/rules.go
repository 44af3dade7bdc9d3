package eco

// RuleSet holds the additive adjustments applied on top of Baseline. The
// zero value is not useful; start from DefaultRules.
type RuleSet struct {
	Baseline         int `toml:"baseline"`
	Recycled         int `toml:"recycled"`
	Organic          int `toml:"organic"`
	PlasticPackaging int `toml:"plastic_packaging"`
	AirShipping      int `toml:"air_shipping"`
	Repairable       int `toml:"repairable"`
	FairTrade        int `toml:"fair_trade"`
	// ComponentMax is the ceiling of every breakdown component.
	ComponentMax int `toml:"component_max"`
}

func DefaultRules() RuleSet {
	return RuleSet{
		Baseline:         50,
		Recycled:         15,
		Organic:          10,
		PlasticPackaging: -10,
		AirShipping:      -20,
		Repairable:       10,
		FairTrade:        15,
		ComponentMax:     30,
	}
}

// Breakdown is the per-component view of a score. It explains the score and
// does not have to add up to it.
type Breakdown struct {
	Materials int `json:"materials"`
	Ethics    int `json:"ethics"`
	Packaging int `json:"packaging"`
	Shipping  int `json:"shipping"`
	Lifespan  int `json:"lifespan"`
}

type signals struct {
	recycled   bool
	organic    bool
	plastic    bool
	air        bool
	repairable bool
	fairTrade  bool
}

func detect(a Attributes) signals {
	return signals{
		recycled:   anyContainsTerm(a.Materials, "recycled"),
		organic:    anyContainsTerm(a.Materials, "organic"),
		plastic:    containsTerm(a.Packaging, "plastic"),
		air:        containsTerm(a.ShippingType, "air"),
		repairable: anyContainsTerm(a.EcoTags, "repairable"),
		fairTrade:  anyContainsTerm(a.EcoTags, "fair-trade"),
	}
}

type Scorer struct {
	rules RuleSet
}

func NewScorer(rules RuleSet) *Scorer {
	if rules.ComponentMax <= 0 {
		rules.ComponentMax = DefaultRules().ComponentMax
	}
	return &Scorer{rules: rules}
}

func (s *Scorer) Rules() RuleSet { return s.rules }

// Score returns the eco score in [0,100]. Intermediate sums may leave the
// range; the clamp is applied once at the end.
func (s *Scorer) Score(a Attributes) int {
	sig := detect(a)
	r := s.rules
	score := r.Baseline
	if sig.recycled {
		score += r.Recycled
	}
	if sig.organic {
		score += r.Organic
	}
	if sig.plastic {
		score += r.PlasticPackaging
	}
	if sig.air {
		score += r.AirShipping
	}
	if sig.repairable {
		score += r.Repairable
	}
	if sig.fairTrade {
		score += r.FairTrade
	}
	return clamp(score, 0, 100)
}

// Breakdown spreads the same signals over five components. Each starts at
// half the ceiling and is clamped to [0, ComponentMax].
func (s *Scorer) Breakdown(a Attributes) Breakdown {
	sig := detect(a)
	r := s.rules
	max := r.ComponentMax
	mid := max / 2
	scale := func(delta int) int { return delta * max / 30 }

	b := Breakdown{Materials: mid, Ethics: mid, Packaging: mid, Shipping: mid, Lifespan: mid}
	if sig.recycled {
		b.Materials += scale(r.Recycled)
	}
	if sig.organic {
		b.Materials += scale(r.Organic)
	}
	if sig.fairTrade {
		b.Ethics += scale(r.FairTrade)
	}
	if sig.plastic {
		b.Packaging += scale(r.PlasticPackaging)
	}
	if sig.air {
		b.Shipping += scale(r.AirShipping)
	}
	if sig.repairable {
		b.Lifespan += scale(r.Repairable)
	}
	b.Materials = clamp(b.Materials, 0, max)
	b.Ethics = clamp(b.Ethics, 0, max)
	b.Packaging = clamp(b.Packaging, 0, max)
	b.Shipping = clamp(b.Shipping, 0, max)
	b.Lifespan = clamp(b.Lifespan, 0, max)
	return b
}

var defaultScorer = NewScorer(DefaultRules())

// Score scores a with the default rule set.
func Score(a Attributes) int { return defaultScorer.Score(a) }
