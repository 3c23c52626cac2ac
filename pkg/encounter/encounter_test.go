package encounter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subject struct {
	name   string
	morale int
}

func (s *subject) Name() string { return s.name }

func (s *subject) AdjustMorale(delta int) (int, error) {
	s.morale += delta
	return s.morale, nil
}

var kraken = Template{
	Title:       "Tentacles!",
	Description: "Something grabs {name}'s ship from below.",
	Options: []Option{
		{Text: "Fight it", SuccessOdds: 1, SuccessText: "{name} chops off a tentacle.", FailureText: "{name} loses a boot."},
		{Text: "Throw it a fish", SuccessOdds: 0, SuccessText: "It works!", FailureText: "The kraken wants more than a fish."},
		{Text: "Pray", SuccessOdds: 1000, SuccessText: "The sea calms down.", FailureText: "Nobody listens."},
	},
}

func TestEncounter_Resolve(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := New(kraken)
	s := &subject{name: "Anne", morale: 10}

	lines, success, err := e.Resolve(rng, s, 1)
	require.NoError(t, err)
	assert.False(t, success, "zero odds always fail")
	assert.Equal(t, []string{
		"\tSomething grabs Anne's ship from below.",
		"\tThe kraken wants more than a fish.",
		"\t\tThe crew's morale decreased by 5!",
	}, lines)
	assert.Equal(t, 5, s.morale)
}

func TestEncounter_ResolveOdds(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	e := New(kraken)

	wins := 0
	const n = 4000
	for range n {
		_, success, err := e.Resolve(rng, &subject{name: "Jack"}, 0)
		require.NoError(t, err)
		if success {
			wins++
		}
	}
	assert.InDelta(t, 0.5, float64(wins)/n, 0.04)
}

func TestEncounter_InvalidOption(t *testing.T) {
	e := New(kraken)
	for _, choice := range []int{-1, 3} {
		_, _, err := e.Resolve(rand.New(rand.NewSource(1)), &subject{name: "Ned"}, choice)
		assert.ErrorIs(t, err, ErrInvalidOption)
	}
}

func TestEncounter_Texts(t *testing.T) {
	e := New(kraken)
	assert.Equal(t, []string{"Fight it", "Throw it a fish", "Pray"}, e.OptionTexts())
	assert.Equal(t, "Something grabs Mary's ship from below.", e.Describe("Mary"))
}

func TestManager_Create(t *testing.T) {
	_, ok := NewManager(nil, rand.New(rand.NewSource(1))).Create()
	assert.False(t, ok)

	e, ok := NewManager([]Template{kraken}, rand.New(rand.NewSource(1))).Create()
	require.True(t, ok)
	assert.Equal(t, "Tentacles!", e.Title)
}

func TestTemplate_Validate(t *testing.T) {
	assert.NoError(t, kraken.Validate())

	err := Template{Options: []Option{{SuccessOdds: -1}}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "no text")
	assert.Contains(t, err.Error(), "negative odds")
}
