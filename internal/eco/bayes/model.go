// Package bayes is a multinomial naive Bayes text classifier with Laplace
// smoothing. Models are trained offline and loaded once; a loaded *Model is
// read-only and safe for concurrent use.
package bayes

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

type Model struct {
	ID            string                       `json:"id"`
	CorpusVersion string                       `json:"corpus_version"`
	CorpusDigest  string                       `json:"corpus_digest"`
	Labels        []eco.Label                  `json:"labels"`
	DocCounts     map[eco.Label]int            `json:"doc_counts"`
	TermCounts    map[eco.Label]map[string]int `json:"term_counts"`
	TotalTerms    map[eco.Label]int            `json:"total_terms"`
	Vocabulary    []string                     `json:"vocabulary"`

	vocab map[string]struct{}
	docs  int
}

// Train builds a model from c. The same corpus always yields the same model.
func Train(c *Corpus) (*Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	digest := c.Digest()
	m := &Model{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte(digest)).String(),
		CorpusVersion: c.Version,
		CorpusDigest:  digest,
		DocCounts:     map[eco.Label]int{},
		TermCounts:    map[eco.Label]map[string]int{},
		TotalTerms:    map[eco.Label]int{},
	}

	vocab := map[string]struct{}{}
	for _, s := range c.Samples {
		label, _ := eco.ParseLabel(s.Label)
		m.DocCounts[label]++
		if m.TermCounts[label] == nil {
			m.TermCounts[label] = map[string]int{}
		}
		for _, tok := range Tokenize(s.Text) {
			m.TermCounts[label][tok]++
			m.TotalTerms[label]++
			vocab[tok] = struct{}{}
		}
	}
	for _, l := range eco.Labels {
		if m.DocCounts[l] > 0 {
			m.Labels = append(m.Labels, l)
		}
	}
	m.Vocabulary = make([]string, 0, len(vocab))
	for tok := range vocab {
		m.Vocabulary = append(m.Vocabulary, tok)
	}
	sort.Strings(m.Vocabulary)
	m.index()
	return m, nil
}

func (m *Model) index() {
	m.vocab = make(map[string]struct{}, len(m.Vocabulary))
	for _, tok := range m.Vocabulary {
		m.vocab[tok] = struct{}{}
	}
	m.docs = 0
	for _, l := range m.Labels {
		m.docs += m.DocCounts[l]
	}
}

// Marshal encodes the model artifact. Map keys are sorted by encoding/json so
// the bytes are reproducible.
func (m *Model) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Load decodes and validates a model artifact. Any failure is reported as
// apperr.ClassifierUnavailable.
func Load(blob []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(blob, &m); err != nil {
		return nil, apperr.Wrap(apperr.ClassifierUnavailable, "bayes.load", fmt.Errorf("decode model: %w", err))
	}
	if err := m.validate(); err != nil {
		return nil, apperr.Wrap(apperr.ClassifierUnavailable, "bayes.load", err)
	}
	m.index()
	return &m, nil
}

func LoadFile(path string) (*Model, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ClassifierUnavailable, "bayes.load", fmt.Errorf("read model: %w", err))
	}
	return Load(blob)
}

func (m *Model) validate() error {
	if len(m.Labels) == 0 {
		return errors.New("model has no labels")
	}
	if len(m.Vocabulary) == 0 {
		return errors.New("model has an empty vocabulary")
	}
	for _, l := range m.Labels {
		if _, ok := eco.ParseLabel(string(l)); !ok {
			return fmt.Errorf("unknown label %q", l)
		}
		if m.DocCounts[l] <= 0 {
			return fmt.Errorf("label %q has no documents", l)
		}
		if m.TotalTerms[l] < 0 {
			return fmt.Errorf("label %q has a negative term total", l)
		}
		for tok, n := range m.TermCounts[l] {
			if n < 0 {
				return fmt.Errorf("label %q term %q has a negative count", l, tok)
			}
		}
	}
	return nil
}

// Classify returns the most probable label and the normalized posterior of
// every label. Tokens outside the vocabulary are ignored, so empty or unknown
// text falls back to the class priors.
func (m *Model) Classify(text string) eco.Classification {
	tokens := Tokenize(text)
	v := float64(len(m.vocab))

	logs := make([]float64, len(m.Labels))
	for i, l := range m.Labels {
		lp := math.Log(float64(m.DocCounts[l]) / float64(m.docs))
		denom := float64(m.TotalTerms[l]) + v
		for _, tok := range tokens {
			if _, ok := m.vocab[tok]; !ok {
				continue
			}
			lp += math.Log((float64(m.TermCounts[l][tok]) + 1) / denom)
		}
		logs[i] = lp
	}

	best := 0
	for i := 1; i < len(logs); i++ {
		if logs[i] > logs[best] {
			best = i
		}
	}

	// softmax relative to the maximum keeps exp() in range
	sum := 0.0
	probs := make([]float64, len(logs))
	for i, lp := range logs {
		probs[i] = math.Exp(lp - logs[best])
		sum += probs[i]
	}
	out := eco.Classification{
		Label:         m.Labels[best],
		Probabilities: make(map[eco.Label]float64, len(m.Labels)),
	}
	for i, l := range m.Labels {
		out.Probabilities[l] = probs[i] / sum
	}
	out.Confidence = out.Probabilities[out.Label]
	return out
}
