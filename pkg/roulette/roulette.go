// Package roulette implements the weighted random choice used for every
// decision in a run: which quest a pirate takes, whether a voyage succeeds,
// which crewmates a brawl sends to the infirmary.
//
// A Selector is built fresh at each decision point and draws from the
// *rand.Rand it was given, so a run seeded once replays identically.
package roulette

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrDuplicateItem is returned when adding an item that is already present.
	ErrDuplicateItem = errors.New("roulette: item already present")
	// ErrUnknownItem is returned when modifying an item that was never added.
	ErrUnknownItem = errors.New("roulette: unknown item")
)

// Modifier changes an item's weight, either by adding Value or by
// multiplying by it.
type Modifier struct {
	Value          float64
	Multiplicative bool
}

// Identity leaves a weight unchanged.
var Identity = Modifier{Value: 1, Multiplicative: true}

// Add returns an additive modifier.
func Add(delta float64) Modifier { return Modifier{Value: delta} }

// Mul returns a multiplicative modifier.
func Mul(factor float64) Modifier { return Modifier{Value: factor, Multiplicative: true} }

// Apply returns w modified by m.
func (m Modifier) Apply(w float64) float64 {
	if m.Multiplicative {
		return w * m.Value
	}
	return w + m.Value
}

// Selector is an insertion-ordered weighted choice over comparable items.
// Items are compared by identity, so pointers make good items.
type Selector[T comparable] struct {
	rng     *rand.Rand
	items   []T
	weights map[T]float64
}

// New creates an empty selector drawing from rng.
func New[T comparable](rng *rand.Rand) *Selector[T] {
	return &Selector[T]{
		rng:     rng,
		weights: make(map[T]float64),
	}
}

// Add registers item with the given weight. Weights may be zero or negative;
// such items are pruned at draw time.
func (s *Selector[T]) Add(item T, weight float64) error {
	if _, ok := s.weights[item]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateItem, item)
	}
	s.items = append(s.items, item)
	s.weights[item] = weight
	return nil
}

// SetWeight overwrites the weight of an existing item.
func (s *Selector[T]) SetWeight(item T, weight float64) error {
	if _, ok := s.weights[item]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownItem, item)
	}
	s.weights[item] = weight
	return nil
}

// ApplyModifier changes the weight of an existing item by m.
func (s *Selector[T]) ApplyModifier(item T, m Modifier) error {
	w, ok := s.weights[item]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownItem, item)
	}
	s.weights[item] = m.Apply(w)
	return nil
}

// Weight returns the current weight of item.
func (s *Selector[T]) Weight(item T) (float64, bool) {
	w, ok := s.weights[item]
	return w, ok
}

// Items returns the items in insertion order, including ones that would be
// pruned by the next draw.
func (s *Selector[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items currently held.
func (s *Selector[T]) Len() int { return len(s.items) }

// Draw prunes every item with weight <= 0 and picks one of the rest with
// probability proportional to its weight. The second return value is false
// when nothing is left to draw.
func (s *Selector[T]) Draw() (T, bool) {
	var zero T
	s.prune()
	if len(s.items) == 0 {
		return zero, false
	}

	roll := s.rng.Float64()
	total := s.total()

	lower := 0.0
	for _, item := range s.items {
		upper := lower + s.weights[item]/total
		if lower <= roll && roll < upper {
			return item, true
		}
		lower = upper
	}
	// Accumulated rounding can leave the last bucket a hair short of 1.
	return s.items[len(s.items)-1], true
}

// MostLikely returns the item with the largest positive weight. Ties go to
// the earliest inserted item.
func (s *Selector[T]) MostLikely() (T, bool) {
	var (
		best  T
		found bool
		max   float64
	)
	for _, item := range s.items {
		w := s.weights[item]
		if w <= 0 {
			continue
		}
		if !found || w > max {
			best, max, found = item, w, true
		}
	}
	return best, found
}

// Probabilities returns the normalised chance of every positive-weight item.
func (s *Selector[T]) Probabilities() map[T]float64 {
	total := s.total()
	probs := make(map[T]float64, len(s.items))
	if total <= 0 {
		return probs
	}
	for _, item := range s.items {
		if w := s.weights[item]; w > 0 {
			probs[item] = w / total
		}
	}
	return probs
}

func (s *Selector[T]) total() float64 {
	total := 0.0
	for _, item := range s.items {
		if w := s.weights[item]; w > 0 {
			total += w
		}
	}
	return total
}

func (s *Selector[T]) prune() {
	kept := s.items[:0]
	for _, item := range s.items {
		if s.weights[item] > 0 {
			kept = append(kept, item)
			continue
		}
		delete(s.weights, item)
	}
	s.items = kept
}
