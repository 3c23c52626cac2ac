package roulette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeck_DrawConsumesWeight(t *testing.T) {
	d := NewDeck[string](newRNG())
	require.NoError(t, d.Add("anne", 1))
	require.NoError(t, d.Add("mary", 1))
	require.NoError(t, d.Add("jack", 1))

	drawn := d.DrawN(3, false)
	assert.ElementsMatch(t, []string{"anne", "mary", "jack"}, drawn)

	_, ok := d.Draw()
	assert.False(t, ok, "deck should be exhausted")
}

func TestDeck_WithoutReshuffleNeverOverdraws(t *testing.T) {
	d := NewDeck[string](newRNG())
	require.NoError(t, d.Add("a", 2))
	require.NoError(t, d.Add("b", 1))

	drawn := d.DrawN(10, false)
	require.Len(t, drawn, 10)

	nonEmpty := 0
	counts := map[string]int{}
	for _, item := range drawn {
		if item != "" {
			nonEmpty++
			counts[item]++
		}
	}
	assert.Equal(t, 3, nonEmpty)
	assert.Equal(t, 2, counts["a"])
	assert.Equal(t, 1, counts["b"])
}

func TestDeck_ReshuffleRestoresInitialDistribution(t *testing.T) {
	d := NewDeck[string](newRNG())
	require.NoError(t, d.Add("a", 2))
	require.NoError(t, d.Add("b", 1))
	before := d.Probabilities()

	drawn := d.DrawN(3, false)
	require.NotContains(t, drawn, "")
	assert.Empty(t, d.Probabilities())

	d.Reset()
	assert.Equal(t, before, d.Probabilities())
	assert.Equal(t, []string{"a", "b"}, d.Items())

	drawn = d.DrawN(9, true)
	for _, item := range drawn {
		assert.NotEmpty(t, item)
	}
	// Three full passes through a 2:1 deck.
	counts := map[string]int{}
	for _, item := range drawn {
		counts[item]++
	}
	assert.Equal(t, 6, counts["a"])
	assert.Equal(t, 3, counts["b"])
}

func TestDeck_DuplicateAdd(t *testing.T) {
	d := NewDeck[string](newRNG())
	require.NoError(t, d.Add("a", 1))
	assert.ErrorIs(t, d.Add("a", 1), ErrDuplicateItem)
	assert.Len(t, d.Items(), 1)
}
