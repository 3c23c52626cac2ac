// Package trait holds the closed set of pirate personalities. Each personality
// is a Kind; what a Kind does to quest selection, voyage resolution, progress
// and bounty expectations lives in one rule table per operation, so every
// rule can be read and tested on its own.
package trait

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/roulette"
)

// ErrUnknownTrait is returned by Lookup for names outside the registry.
var ErrUnknownTrait = errors.New("unknown trait")

// Kind is a pirate personality.
type Kind string

const (
	Bold          Kind = "bold"
	Cautious      Kind = "cautious"
	Greedy        Kind = "greedy"
	Loyal         Kind = "loyal"
	Impulsive     Kind = "impulsive"
	Strategic     Kind = "strategic"
	Superstitious Kind = "superstitious"
	Brutal        Kind = "brutal"
	Resourceful   Kind = "resourceful"
	Cowardly      Kind = "cowardly"
	Tricky        Kind = "tricky"
)

// All lists every registered trait in a stable order.
var All = []Kind{
	Bold, Cautious, Greedy, Loyal, Impulsive, Strategic,
	Superstitious, Brutal, Resourceful, Cowardly, Tricky,
}

// BaseBountyThreshold is the bounty ratio, in percent of the reward, below
// which a pirate without any bias turns a quest down.
const BaseBountyThreshold = 15

// Lookup returns the trait named name, ignoring case and surrounding space.
func Lookup(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := descriptions[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrait, name)
	}
	return k, nil
}

// Title returns the display name, e.g. "Superstitious".
func (k Kind) Title() string {
	return cases.Title(language.English).String(string(k))
}

// Description is a one-line summary of how the trait plays.
func (k Kind) Description() string { return descriptions[k] }

func (k Kind) String() string { return string(k) }

// SelectionModifiers returns the weight changes the trait applies to the
// candidate quests before a pirate picks one. Quests the trait has no
// opinion about are absent from the result.
func (k Kind) SelectionModifiers(candidates []*quest.Quest) map[*quest.Quest]roulette.Modifier {
	rule, ok := selectionRules[k]
	if !ok {
		return nil
	}
	out := make(map[*quest.Quest]roulette.Modifier)
	for _, q := range candidates {
		if m, ok := rule(q); ok {
			out[q] = m
		}
	}
	return out
}

// ResolutionModifier is applied to the success weight when a voyage
// concludes.
func (k Kind) ResolutionModifier(q *quest.Quest) roulette.Modifier {
	if rule, ok := resolutionRules[k]; ok {
		return rule(q)
	}
	return roulette.Identity
}

// ProgressModifier is added to the pirate's per-turn progress on q.
func (k Kind) ProgressModifier(q *quest.Quest) int {
	if rule, ok := progressRules[k]; ok {
		return rule(q)
	}
	return 0
}

// MinimumBountyBias shifts the pirate's bounty threshold, in percentage
// points.
func (k Kind) MinimumBountyBias() int { return bountyBias[k] }

// BountyThreshold is the lowest bounty ratio the trait accepts.
func (k Kind) BountyThreshold() int { return BaseBountyThreshold + k.MinimumBountyBias() }
