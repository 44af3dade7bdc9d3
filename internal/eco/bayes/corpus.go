package bayes

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

//go:embed corpus.toml
var defaultCorpus []byte

type Sample struct {
	Label string `toml:"label"`
	Text  string `toml:"text"`
}

// Corpus is a versioned set of labeled samples. Samples are used in file
// order.
type Corpus struct {
	Version string   `toml:"version"`
	Samples []Sample `toml:"sample"`
}

// DefaultCorpus returns the corpus compiled into the binary.
func DefaultCorpus() (*Corpus, error) {
	return ParseCorpus(defaultCorpus)
}

func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return ParseCorpus(data)
}

func ParseCorpus(data []byte) (*Corpus, error) {
	var c Corpus
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid corpus: %w", err)
	}
	return &c, nil
}

func (c *Corpus) Validate() error {
	if len(c.Samples) == 0 {
		return errors.New("corpus has no samples")
	}
	for i, s := range c.Samples {
		if _, ok := eco.ParseLabel(s.Label); !ok {
			return fmt.Errorf("sample %d: unknown label %q", i, s.Label)
		}
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("sample %d: empty text", i)
		}
	}
	return nil
}

// Digest is the hex SHA-256 of the normalized samples. Two corpora with the
// same samples in the same order share a digest regardless of version or
// formatting.
func (c *Corpus) Digest() string {
	h := sha256.New()
	for _, s := range c.Samples {
		label, _ := eco.ParseLabel(s.Label)
		fmt.Fprintf(h, "%s\t%s\n", label, strings.Join(Tokenize(s.Text), " "))
	}
	return hex.EncodeToString(h.Sum(nil))
}
