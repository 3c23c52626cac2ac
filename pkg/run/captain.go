package run

import (
	"context"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/quest"
)

// SkipPinning is the quest index a Captain returns to stop pinning for the
// turn.
const SkipPinning = -1

// Captain makes the player's decisions during a run. Returning an error
// wrapping ErrInvalidChoice makes the run warn and ask again; any other
// error ends the run.
type Captain interface {
	// ChooseQuest returns an index into b.Available, or SkipPinning.
	ChooseQuest(ctx context.Context, b Board) (int, error)
	// ChooseBounty returns the cut offered to whoever takes q.
	ChooseBounty(ctx context.Context, b Board, q *quest.Quest) (int, error)
	// ChooseEncounterOption returns a 0-based index into e's options.
	ChooseEncounterOption(ctx context.Context, p *crew.Pirate, e *encounter.Encounter) (int, error)
	// Warn tells the captain why the last answer was rejected.
	Warn(ctx context.Context, msg string)
}

// Sink receives each turn's log once the turn is over.
type Sink interface {
	Publish(ctx context.Context, runID string, turn int, lines []string) error
}

// PinnedQuest is a quest on the pinned board with its remaining time.
type PinnedQuest struct {
	Quest     *quest.Quest
	ExpiresIn int
}

// Board is a snapshot of the run for the captain.
type Board struct {
	RunID        string
	Seed         int64
	Turn         int
	Gold         int
	Notoriety    int
	MaxNotoriety int
	Available    []*quest.Quest
	Pinned       []PinnedQuest
	Crew         []*crew.Pirate
	LastTurn     []string
}

// AtSea returns the crew members out on a voyage.
func (b Board) AtSea() []*crew.Pirate {
	var out []*crew.Pirate
	for _, p := range b.Crew {
		if p.OnAQuest() {
			out = append(out, p)
		}
	}
	return out
}

// AtTavern returns the crew members ashore.
func (b Board) AtTavern() []*crew.Pirate {
	var out []*crew.Pirate
	for _, p := range b.Crew {
		if !p.OnAQuest() {
			out = append(out, p)
		}
	}
	return out
}
