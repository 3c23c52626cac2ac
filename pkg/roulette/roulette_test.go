package roulette

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type card struct{ name string }

func newRNG() *rand.Rand { return rand.New(rand.NewSource(42)) }

func TestSelector_NoItems(t *testing.T) {
	s := New[*card](newRNG())

	got, ok := s.Draw()
	assert.False(t, ok)
	assert.Nil(t, got)

	_, ok = s.MostLikely()
	assert.False(t, ok)
	assert.Empty(t, s.Probabilities())
}

func TestSelector_SingleItem(t *testing.T) {
	s := New[*card](newRNG())
	only := &card{"Plunder the Ghost Ship"}
	require.NoError(t, s.Add(only, 1.0))

	for range 100 {
		got, ok := s.Draw()
		require.True(t, ok)
		require.Same(t, only, got)
	}
}

func TestSelector_RemovesImpossibleItems(t *testing.T) {
	s := New[*card](newRNG())
	a := &card{"Plunder the Ghost Ship"}
	b := &card{"Save Cpt Shaliber"}
	c := &card{"Loot the tavern"}
	require.NoError(t, s.Add(a, 0.0))
	require.NoError(t, s.Add(b, 1.0))
	require.NoError(t, s.Add(c, 0.5))

	counts := map[*card]int{}
	for range 1000 {
		got, ok := s.Draw()
		require.True(t, ok)
		require.Equal(t, 2, s.Len())
		counts[got]++
	}

	assert.Zero(t, counts[a])
	assert.Greater(t, counts[b], counts[c])
	assert.Equal(t, 1000, counts[b]+counts[c])
}

func TestSelector_NegativeWeightNeverDrawn(t *testing.T) {
	s := New[string](newRNG())
	require.NoError(t, s.Add("sunk", -3))
	require.NoError(t, s.Add("afloat", 0.1))

	for range 200 {
		got, ok := s.Draw()
		require.True(t, ok)
		require.Equal(t, "afloat", got)
	}
}

func TestSelector_ConvergesToProbabilities(t *testing.T) {
	s := New[string](newRNG())
	weights := map[string]float64{"treasure": 5, "combat": 3, "idle": 1, "theft": 0.5}
	for _, k := range []string{"treasure", "combat", "idle", "theft"} {
		require.NoError(t, s.Add(k, weights[k]))
	}
	probs := s.Probabilities()
	assert.InDelta(t, 1.0, probs["treasure"]+probs["combat"]+probs["idle"]+probs["theft"], 1e-9)

	const n = 20000
	counts := map[string]int{}
	for range n {
		got, _ := s.Draw()
		counts[got]++
	}
	for item, p := range probs {
		observed := float64(counts[item]) / n
		stderr := math.Sqrt(p * (1 - p) / n)
		assert.InDelta(t, p, observed, 4*stderr, "item %s", item)
	}
}

func TestSelector_Errors(t *testing.T) {
	s := New[string](newRNG())
	require.NoError(t, s.Add("a", 1))

	err := s.Add("a", 2)
	assert.True(t, errors.Is(err, ErrDuplicateItem))

	assert.ErrorIs(t, s.SetWeight("b", 1), ErrUnknownItem)
	assert.ErrorIs(t, s.ApplyModifier("b", Add(1)), ErrUnknownItem)
}

func TestSelector_Modifiers(t *testing.T) {
	tests := []struct {
		name string
		mod  Modifier
		want float64
	}{
		{"additive", Add(0.5), 2.5},
		{"additive malus", Add(-0.25), 1.75},
		{"multiplicative", Mul(1.5), 3.0},
		{"identity", Identity, 2.0},
		{"exclude", Mul(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[string](newRNG())
			require.NoError(t, s.Add("q", 2.0))
			require.NoError(t, s.ApplyModifier("q", tt.mod))
			got, ok := s.Weight("q")
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSelector_MostLikely(t *testing.T) {
	s := New[string](newRNG())
	require.NoError(t, s.Add("first", 1))
	require.NoError(t, s.Add("second", 3))
	require.NoError(t, s.Add("third", 3))

	got, ok := s.MostLikely()
	require.True(t, ok)
	assert.Equal(t, "second", got)

	require.NoError(t, s.SetWeight("second", 0))
	require.NoError(t, s.SetWeight("third", 0))
	got, ok = s.MostLikely()
	require.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestSelector_ReproducibleWithSeed(t *testing.T) {
	draw := func() []int {
		s := New[int](rand.New(rand.NewSource(7)))
		for i := range 5 {
			require.NoError(t, s.Add(i, float64(i+1)))
		}
		var out []int
		for range 50 {
			got, _ := s.Draw()
			out = append(out, got)
		}
		return out
	}

	assert.Equal(t, draw(), draw())
}
