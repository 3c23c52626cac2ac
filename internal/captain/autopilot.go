package captain

import (
	"context"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/game"
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

// Autopilot plays without a human. Each turn it pins random quests, one
// per pirate ashore, offering between a quarter and half of the reward.
type Autopilot struct {
	rng    *rand.Rand
	logger *slog.Logger

	turn   int
	pinned int
}

var (
	_ run.Captain        = (*Autopilot)(nil)
	_ game.Quartermaster = (*Autopilot)(nil)
)

func NewAutopilot(seed int64, logger *slog.Logger) *Autopilot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Autopilot{rng: rand.New(rand.NewSource(seed)), logger: logger}
}

func (a *Autopilot) ChooseQuest(_ context.Context, b run.Board) (int, error) {
	if b.Turn != a.turn {
		a.turn, a.pinned = b.Turn, 0
	}
	ashore := len(b.AtTavern())
	if len(b.Available) == 0 || a.pinned+len(b.Pinned) >= ashore {
		return run.SkipPinning, nil
	}
	a.pinned++
	return a.rng.Intn(len(b.Available)), nil
}

func (a *Autopilot) ChooseBounty(_ context.Context, _ run.Board, q *quest.Quest) (int, error) {
	if q.Reward <= 0 {
		return 0, nil
	}
	lo, hi := q.Reward/4, q.Reward/2
	return lo + a.rng.Intn(hi-lo+1), nil
}

func (a *Autopilot) ChooseEncounterOption(_ context.Context, _ *crew.Pirate, e *encounter.Encounter) (int, error) {
	best := 0
	for i, o := range e.Options {
		if o.SuccessOdds > e.Options[best].SuccessOdds {
			best = i
		}
	}
	return best, nil
}

func (a *Autopilot) Warn(_ context.Context, msg string) {
	a.logger.Debug("autopilot answer rejected", "reason", msg)
}

// ChooseCrew hires the strongest pirates by total stats.
func (a *Autopilot) ChooseCrew(_ context.Context, unlocked []*crew.Pirate, size int) ([]int, error) {
	idx := a.rng.Perm(len(unlocked))
	score := func(p *crew.Pirate) int { return p.Navigation() + p.Combat() + p.Trickyness() }
	slices.SortStableFunc(idx, func(x, y int) int { return score(unlocked[y]) - score(unlocked[x]) })
	return idx[:min(size, len(idx))], nil
}

// EquipArtifact hands the artifact to the first pirate with free hands.
func (a *Autopilot) EquipArtifact(_ context.Context, hired []*crew.Pirate, _ *crew.Artifact) (int, error) {
	for i, p := range hired {
		if p.Artifact() == nil {
			return i, nil
		}
	}
	return game.NoArtifact, nil
}

func (a *Autopilot) SailAgain(context.Context, run.Summary) (bool, error) { return true, nil }
