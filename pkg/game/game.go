// Package game strings runs together. Gold, unlocked pirates and artifacts
// carry from one run to the next for as long as the process lives.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

const (
	DefaultCrewSize = 3
	// NoArtifact is the pirate index a Quartermaster returns to keep an
	// artifact in the chest.
	NoArtifact = -1
)

// Quartermaster makes the between-run decisions.
type Quartermaster interface {
	// ChooseCrew returns indices into unlocked, at most size of them.
	ChooseCrew(ctx context.Context, unlocked []*crew.Pirate, size int) ([]int, error)
	// EquipArtifact returns an index into crew, or NoArtifact.
	EquipArtifact(ctx context.Context, crew []*crew.Pirate, a *crew.Artifact) (int, error)
	// SailAgain decides whether another run starts after last.
	SailAgain(ctx context.Context, last run.Summary) (bool, error)
}

// Bank is the content a game draws from.
type Bank interface {
	run.Bank
	Pirates() []crew.Template
	Artifacts() []crew.Artifact
}

// Options configures a game. Run holds the per-run settings; its Seed is the
// base seed and run n sails with Seed+n.
type Options struct {
	Run      run.Options
	CrewSize int
	// MaxRuns stops Play after that many runs, 0 means no limit.
	MaxRuns int
	Logger  *slog.Logger
}

// Game is the meta progression across runs.
type Game struct {
	bank      Bank
	opts      Options
	rng       *rand.Rand
	logger    *slog.Logger
	gold      int
	unlocked  []*crew.Pirate
	artifacts []*crew.Artifact
	history   []run.Summary
}

// New starts a game with the level-1 pirates unlocked and the configured
// starting gold.
func New(bank Bank, opts Options) (*Game, error) {
	if bank == nil {
		return nil, errors.New("game needs a content bank")
	}
	if opts.CrewSize <= 0 {
		opts.CrewSize = DefaultCrewSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Run.Logger = logger

	g := &Game{
		bank:   bank,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Run.Seed)),
		logger: logger,
		gold:   opts.Run.Gold,
	}
	if err := g.unlock(1); err != nil {
		return nil, err
	}
	if len(g.unlocked) == 0 {
		return nil, errors.New("no level 1 pirates in the content bank")
	}
	return g, nil
}

func (g *Game) Gold() int { return g.gold }

// Runs is how many runs have been played.
func (g *Game) Runs() int { return len(g.history) }

// History returns the summaries of every finished run.
func (g *Game) History() []run.Summary { return append([]run.Summary(nil), g.history...) }

// Unlocked returns every pirate the captain can hire.
func (g *Game) Unlocked() []*crew.Pirate { return append([]*crew.Pirate(nil), g.unlocked...) }

// Artifacts returns the artifacts in the chest.
func (g *Game) Artifacts() []*crew.Artifact { return append([]*crew.Artifact(nil), g.artifacts...) }

// Play runs until the quartermaster stops sailing or MaxRuns is reached.
func (g *Game) Play(ctx context.Context, captain run.Captain, qm Quartermaster) ([]run.Summary, error) {
	for {
		sum, err := g.PlayRun(ctx, captain, qm)
		if err != nil {
			return g.History(), err
		}
		if g.opts.MaxRuns > 0 && g.Runs() >= g.opts.MaxRuns {
			return g.History(), nil
		}
		again, err := qm.SailAgain(ctx, sum)
		if err != nil {
			return g.History(), err
		}
		if !again {
			return g.History(), nil
		}
	}
}

// PlayRun hires a crew, hands out artifacts, plays one run and settles the
// spoils.
func (g *Game) PlayRun(ctx context.Context, captain run.Captain, qm Quartermaster) (run.Summary, error) {
	hired, reserve, err := g.hire(ctx, captain, qm)
	if err != nil {
		return run.Summary{}, err
	}
	if err := g.equip(ctx, captain, qm, hired); err != nil {
		return run.Summary{}, err
	}

	opts := g.opts.Run
	opts.Seed = g.opts.Run.Seed + int64(g.Runs())
	opts.Gold = g.gold
	opts.Level = g.Runs() + 1
	opts.Reserve = reserve

	r, err := run.New(g.bank, hired, captain, opts)
	if err != nil {
		return run.Summary{}, fmt.Errorf("failed to start run %d: %w", g.Runs()+1, err)
	}
	sum, playErr := r.Play(ctx)
	if err := g.settle(sum); err != nil {
		return sum, errors.Join(playErr, err)
	}
	return sum, playErr
}

func (g *Game) hire(ctx context.Context, captain run.Captain, qm Quartermaster) (hired, reserve []*crew.Pirate, err error) {
	size := min(g.opts.CrewSize, len(g.unlocked))
	for range run.MaxInvalidInputs {
		picks, err := qm.ChooseCrew(ctx, g.Unlocked(), size)
		if err != nil {
			if !errors.Is(err, run.ErrInvalidChoice) {
				return nil, nil, err
			}
			captain.Warn(ctx, "Invalid option! "+err.Error())
			continue
		}
		if err := validatePicks(picks, len(g.unlocked), size); err != nil {
			captain.Warn(ctx, "Invalid option! "+err.Error())
			continue
		}

		chosen := make(map[int]bool, len(picks))
		for _, i := range picks {
			chosen[i] = true
			hired = append(hired, g.unlocked[i])
		}
		for i, p := range g.unlocked {
			if !chosen[i] {
				reserve = append(reserve, p)
			}
		}
		return hired, reserve, nil
	}
	return nil, nil, fmt.Errorf("choosing a crew: %w", run.ErrTooManyInvalidInputs)
}

func validatePicks(picks []int, n, size int) error {
	if len(picks) == 0 || len(picks) > size {
		return fmt.Errorf("%w: pick between 1 and %d pirates", run.ErrInvalidChoice, size)
	}
	seen := make(map[int]bool, len(picks))
	for _, i := range picks {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: no pirate number %d", run.ErrInvalidChoice, i+1)
		}
		if seen[i] {
			return fmt.Errorf("%w: pirate number %d picked twice", run.ErrInvalidChoice, i+1)
		}
		seen[i] = true
	}
	return nil
}

func (g *Game) equip(ctx context.Context, captain run.Captain, qm Quartermaster, hired []*crew.Pirate) error {
	for _, a := range g.Artifacts() {
		idx, err := g.askArtifact(ctx, captain, qm, hired, a)
		if err != nil {
			return err
		}
		if idx == NoArtifact {
			continue
		}
		if err := hired[idx].Equip(a); err != nil {
			return fmt.Errorf("failed to equip %s: %w", a.Name, err)
		}
		g.logger.Debug("artifact equipped", "artifact", a.Name, "pirate", hired[idx].Name())
	}
	return nil
}

func (g *Game) askArtifact(ctx context.Context, captain run.Captain, qm Quartermaster, hired []*crew.Pirate, a *crew.Artifact) (int, error) {
	for range run.MaxInvalidInputs {
		idx, err := qm.EquipArtifact(ctx, hired, a)
		if err == nil && (idx == NoArtifact || (idx >= 0 && idx < len(hired) && hired[idx].Artifact() == nil)) {
			return idx, nil
		}
		if err == nil {
			err = fmt.Errorf("%w: nobody free to carry %s at number %d", run.ErrInvalidChoice, a.Name, idx+1)
		}
		if !errors.Is(err, run.ErrInvalidChoice) {
			return 0, err
		}
		captain.Warn(ctx, "Invalid option! "+err.Error())
	}
	return 0, fmt.Errorf("equipping %s: %w", a.Name, run.ErrTooManyInvalidInputs)
}

// settle carries the run's outcome into the game: gold that is left, new
// recruits, pirate unlocks for the next level and one new artifact.
func (g *Game) settle(sum run.Summary) error {
	g.history = append(g.history, sum)
	g.gold = max(0, sum.Gold)

	for _, p := range sum.Recruits {
		if !g.knows(p.Name()) {
			g.unlocked = append(g.unlocked, p)
		}
	}
	for _, p := range g.unlocked {
		if _, err := p.Unequip(); err != nil {
			return fmt.Errorf("failed to return the artifact of %s: %w", p.Name(), err)
		}
	}
	if err := g.unlock(g.Runs() + 1); err != nil {
		return err
	}
	if a, ok := g.award(); ok {
		g.logger.Info("artifact awarded", "artifact", a.Name)
	}
	g.logger.Info("run settled", "run", g.Runs(), "gold", g.gold, "unlocked", len(g.unlocked))
	return nil
}

func (g *Game) unlock(level int) error {
	for _, t := range g.bank.PiratesUpToLevel(level) {
		if g.knows(t.Name) {
			continue
		}
		p, err := crew.NewPirate(t, g.rng)
		if err != nil {
			return fmt.Errorf("failed to unlock %s: %w", t.Name, err)
		}
		g.unlocked = append(g.unlocked, p)
		g.logger.Debug("pirate unlocked", "pirate", t.Name, "level", t.Level)
	}
	return nil
}

func (g *Game) award() (*crew.Artifact, bool) {
	var pool []crew.Artifact
	for _, a := range g.bank.Artifacts() {
		if !g.owns(a.Name) {
			pool = append(pool, a)
		}
	}
	if len(pool) == 0 {
		return nil, false
	}
	a := pool[g.rng.Intn(len(pool))]
	g.artifacts = append(g.artifacts, &a)
	return &a, true
}

func (g *Game) knows(name string) bool {
	for _, p := range g.unlocked {
		if p.Name() == name {
			return true
		}
	}
	return false
}

func (g *Game) owns(name string) bool {
	for _, a := range g.artifacts {
		if a.Name == name {
			return true
		}
	}
	return false
}
