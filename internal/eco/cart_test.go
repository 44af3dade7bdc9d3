package eco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartScore(t *testing.T) {
	cases := []struct {
		name    string
		entries []CartEntry
		want    int
	}{
		{"empty", nil, 0},
		{"weighted", []CartEntry{{90, 2}, {60, 1}}, 80},
		{"rounds half up", []CartEntry{{70, 1}, {71, 1}}, 71},
		{"rounds down", []CartEntry{{70, 2}, {71, 1}}, 70},
		{"single", []CartEntry{{42, 5}}, 42},
		{"ignores zero quantity", []CartEntry{{10, 0}, {80, 1}}, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CartScore(tc.entries))
		})
	}
}

func TestCartVerdict(t *testing.T) {
	assert.Equal(t, "Your cart is empty.", CartVerdict(0, true))
	assert.Equal(t, "Your cart is very eco-friendly!", CartVerdict(75, false))
	assert.Equal(t, "Your cart is moderately eco-friendly. Want to improve it?", CartVerdict(50, false))
	assert.Equal(t, "Your cart could be greener. Try the suggested swaps.", CartVerdict(49, false))
}
