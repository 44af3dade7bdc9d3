package eco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEvidence(t *testing.T) {
	ev := ExtractEvidence("Organic cotton shirt, RECYCLED packaging. Shipped by air freight in plastic.")
	assert.Equal(t, []string{"recycled", "organic"}, ev.Positive)
	assert.Equal(t, []string{"plastic", "air freight"}, ev.Negative)
}

func TestExtractEvidence_SubstringSemantics(t *testing.T) {
	ev := ExtractEvidence("non-recyclable wrapper")
	assert.Equal(t, []string{"recyclable"}, ev.Positive)
	assert.Equal(t, []string{"non-recyclable"}, ev.Negative)
}

func TestExtractEvidence_EmptyIsNotNil(t *testing.T) {
	ev := ExtractEvidence("")
	assert.NotNil(t, ev.Positive)
	assert.NotNil(t, ev.Negative)
	assert.True(t, ev.Empty())
}

func TestExtractEvidence_Idempotent(t *testing.T) {
	text := "reusable steel bottle, plastic free, zero waste, locally sourced"
	first := ExtractEvidence(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractEvidence(text))
	}
	seen := map[string]bool{}
	for _, k := range first.Positive {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
	}
}
