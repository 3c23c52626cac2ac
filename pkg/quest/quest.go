// Package quest holds the quests pirates sail, the effects their outcomes
// trigger and the Factory that builds both from content templates.
package quest

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidBounty is returned when a bounty falls outside [0, reward].
var ErrInvalidBounty = errors.New("bounty must be between 0 and the quest reward")

// Type categorizes quests. It decides which stat a pirate rolls with and
// which failure consequences a quest carries.
type Type string

const (
	TypeTreasure    Type = "treasure"
	TypeCombat      Type = "combat"
	TypeDelivery    Type = "delivery"
	TypeRescue      Type = "rescue"
	TypeSmuggling   Type = "smuggling"
	TypeFetch       Type = "fetch"
	TypeExploration Type = "exploration"
	TypeEscort      Type = "escort"
	TypeTheft       Type = "theft"
	TypeIdle        Type = "idle"
)

var allTypes = []Type{
	TypeTreasure, TypeCombat, TypeDelivery, TypeRescue, TypeSmuggling,
	TypeFetch, TypeExploration, TypeEscort, TypeTheft, TypeIdle,
}

// ParseType returns the Type named s.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown quest type %q", s)
}

// Title returns the display form of the type, e.g. "Treasure".
func (t Type) Title() string {
	return cases.Title(language.English).String(string(t))
}

var cursedWords = []string{"magic", "curse", "kraken", "monster", "ghost", "haunted", "mermaid"}

// Quest is a task on the board. Its identity (name, type, difficulty,
// reward, effects) is fixed by the Factory; bounty and progress change as it
// moves from the available board to the pinned board to a pirate's hands.
type Quest struct {
	Name       string
	Type       Type
	Difficulty int
	Reward     int
	Progress   int
	Expiration int // turns a pinned quest stays on the board; 0 means use Difficulty
	Distance   int
	TemplateID int

	SuccessEffects []Effect
	FailureEffects []Effect

	bounty int
}

// Bounty is the pirate's promised cut.
func (q *Quest) Bounty() int { return q.bounty }

// SetBounty sets the pirate's cut. Values below 0 or above the reward are
// rejected and the previous bounty is kept.
func (q *Quest) SetBounty(v int) error {
	if v < 0 || v > max(q.Reward, 0) {
		return fmt.Errorf("%w: got %d, reward is %d", ErrInvalidBounty, v, q.Reward)
	}
	q.bounty = v
	return nil
}

// BountyRatio is the bounty as a whole percentage of the reward.
func (q *Quest) BountyRatio() int {
	if q.Reward <= 0 {
		return 0
	}
	return 100 * q.bounty / q.Reward
}

// IsIdle reports whether this is downtime rather than a voyage.
func (q *Quest) IsIdle() bool { return q.Type == TypeIdle }

// IsCursed reports whether the quest name hints at the supernatural.
func (q *Quest) IsCursed() bool {
	name := strings.ToLower(q.Name)
	for _, w := range cursedWords {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// PinDuration is how many turns the quest stays on the pinned board.
func (q *Quest) PinDuration() int {
	if q.Expiration > 0 {
		return q.Expiration
	}
	return q.Difficulty
}

// ResetProgress puts the voyage back at its full length.
func (q *Quest) ResetProgress() { q.Progress = q.Difficulty }

// AllEffects returns every distinct effect attached to the quest. Effects
// shared between both branches appear once.
func (q *Quest) AllEffects() []Effect {
	seen := make(map[Effect]bool, len(q.SuccessEffects)+len(q.FailureEffects))
	var out []Effect
	for _, e := range append(append([]Effect{}, q.SuccessEffects...), q.FailureEffects...) {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// OnPinned notifies the effects that the captain pinned this quest.
func (q *Quest) OnPinned() {
	for _, e := range q.AllEffects() {
		if h, ok := e.(PinHook); ok {
			h.OnPinned(q)
		}
	}
}

// OnSelected notifies the effects which crewmate took the quest.
func (q *Quest) OnSelected(taker Crewmate) {
	for _, e := range q.AllEffects() {
		if h, ok := e.(SelectHook); ok {
			h.OnSelected(taker)
		}
	}
}

// Effects returns the effect list for the given outcome.
func (q *Quest) Effects(success bool) []Effect {
	if success {
		return q.SuccessEffects
	}
	return q.FailureEffects
}

func (q *Quest) String() string {
	return fmt.Sprintf("D %d - R %d\t[%s]\t| %s", q.Difficulty, q.Reward, q.Type, q.Name)
}
