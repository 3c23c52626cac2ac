package roulette

import "math/rand"

// Deck is a Selector whose draws consume weight: each draw takes one unit
// off the drawn item, so a weight of 2 can be drawn twice before it runs out.
// The weights registered before the first draw form the initial deck, which
// Reset (or a reshuffling DrawN) restores.
type Deck[T comparable] struct {
	*Selector[T]
	initialItems   []T
	initialWeights map[T]float64
}

// NewDeck creates an empty deck drawing from rng.
func NewDeck[T comparable](rng *rand.Rand) *Deck[T] {
	return &Deck[T]{
		Selector:       New[T](rng),
		initialWeights: make(map[T]float64),
	}
}

// Add registers item in the live pool and in the initial deck.
func (d *Deck[T]) Add(item T, weight float64) error {
	if err := d.Selector.Add(item, weight); err != nil {
		return err
	}
	d.initialItems = append(d.initialItems, item)
	d.initialWeights[item] = weight
	return nil
}

// Draw draws one item and removes one unit of its weight.
func (d *Deck[T]) Draw() (T, bool) {
	item, ok := d.Selector.Draw()
	if !ok {
		return item, false
	}
	d.weights[item]--
	return item, true
}

// DrawN draws n items one at a time. When the deck runs dry and reshuffle is
// set, the initial deck is restored before continuing; otherwise the
// remaining entries are the zero value of T. The result always has length n.
func (d *Deck[T]) DrawN(n int, reshuffle bool) []T {
	out := make([]T, 0, n)
	for range n {
		if d.empty() && reshuffle {
			d.Reset()
		}
		item, _ := d.Draw()
		out = append(out, item)
	}
	return out
}

// Reset restores the deck to its initial items and weights.
func (d *Deck[T]) Reset() {
	d.items = append(d.items[:0], d.initialItems...)
	d.weights = make(map[T]float64, len(d.initialWeights))
	for item, w := range d.initialWeights {
		d.weights[item] = w
	}
}

func (d *Deck[T]) empty() bool {
	for _, item := range d.items {
		if d.weights[item] > 0 {
			return false
		}
	}
	return true
}
