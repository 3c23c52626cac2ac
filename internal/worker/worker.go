package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/guischmitd/piratesim2024/internal/captain"
	"github.com/guischmitd/piratesim2024/internal/logger"
	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

// ReasonTurnLimit ends a simulated run that outlived its turn budget.
const ReasonTurnLimit = "Turn limit reached"

// Result is the outcome of one simulated run.
type Result struct {
	Index   int
	Seed    int64
	Summary run.Summary
	Err     error
}

// Pool plays autopilot runs in parallel. Every run gets its own seed,
// generator and crew.
type Pool struct {
	id       string
	bank     run.Bank
	opts     run.Options
	crewSize int
	maxTurns int
	workers  int
	sink     run.Sink
	log      *slog.Logger
}

// Config sizes a Pool.
type Config struct {
	Run      run.Options
	CrewSize int
	MaxTurns int
	Workers  int
	Sink     run.Sink
}

// New creates a pool. Run.Seed is the base seed; run i sails with Seed+i.
func New(bank run.Bank, cfg Config, log *slog.Logger) *Pool {
	if log == nil {
		log = slog.Default()
	}
	id := fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	return &Pool{
		id:       id,
		bank:     bank,
		opts:     cfg.Run,
		crewSize: max(cfg.CrewSize, 1),
		maxTurns: cfg.MaxTurns,
		workers:  max(cfg.Workers, 1),
		sink:     cfg.Sink,
		log:      log.With("worker_id", id),
	}
}

// Run plays n runs and returns their results in index order. A failing run
// is recorded in its Result and does not stop the batch; only context
// cancellation does.
func (p *Pool) Run(ctx context.Context, n int) ([]Result, error) {
	p.log.Info("Batch starting", "runs", n, "workers", p.workers, "base_seed", p.opts.Seed)

	results := make([]Result, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seed := p.opts.Seed + int64(i)
			sum, err := p.play(gctx, seed)
			results[i] = Result{Index: i, Seed: seed, Summary: sum, Err: err}
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.WithRunID(p.log, sum.RunID).Error("Simulated run failed", "seed", seed, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	p.log.Info("Batch finished", "runs", n)
	return results, nil
}

func (p *Pool) play(ctx context.Context, seed int64) (run.Summary, error) {
	pilot := captain.NewAutopilot(seed, p.log)

	hired, err := p.hire(ctx, pilot, seed)
	if err != nil {
		return run.Summary{}, err
	}

	opts := p.opts
	opts.Seed = seed
	opts.Source = nil
	opts.Sink = p.sink
	opts.Logger = p.log
	r, err := run.New(p.bank, hired, pilot, opts)
	if err != nil {
		return run.Summary{}, err
	}

	for turn := 0; p.maxTurns <= 0 || turn < p.maxTurns; turn++ {
		if over, _ := r.Over(); over {
			return r.Summary(), nil
		}
		if err := r.NextTurn(ctx); err != nil {
			return r.Summary(), err
		}
	}
	if over, _ := r.Over(); over {
		return r.Summary(), nil
	}
	sum := r.Summary()
	sum.Reason = ReasonTurnLimit
	return sum, nil
}

func (p *Pool) hire(ctx context.Context, pilot *captain.Autopilot, seed int64) ([]*crew.Pirate, error) {
	rng := rand.New(rand.NewSource(seed))
	var pool []*crew.Pirate
	for _, t := range p.bank.PiratesUpToLevel(max(p.opts.Level, 1)) {
		pirate, err := crew.NewPirate(t, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to hire %s: %w", t.Name, err)
		}
		pool = append(pool, pirate)
	}
	picks, err := pilot.ChooseCrew(ctx, pool, p.crewSize)
	if err != nil {
		return nil, err
	}
	hired := make([]*crew.Pirate, len(picks))
	for i, idx := range picks {
		hired[i] = pool[idx]
	}
	return hired, nil
}

// Report aggregates a batch.
type Report struct {
	Runs      int
	Failed    int
	AvgTurns  float64
	AvgGold   float64
	MaxGold   int
	BestSeed  int64
	Reasons   map[string]int
	Stranded  int
	Recruited int
}

// Summarize builds a Report from a batch's results.
func Summarize(results []Result) Report {
	rep := Report{Reasons: make(map[string]int)}
	var turns, gold, played int
	for _, r := range results {
		rep.Runs++
		if r.Err != nil {
			rep.Failed++
			continue
		}
		played++
		turns += r.Summary.Turns
		gold += r.Summary.Gold
		if played == 1 || r.Summary.Gold > rep.MaxGold {
			rep.MaxGold, rep.BestSeed = r.Summary.Gold, r.Seed
		}
		rep.Reasons[r.Summary.Reason]++
		rep.Stranded += len(r.Summary.Stranded)
		rep.Recruited += len(r.Summary.Recruits)
	}
	if played > 0 {
		rep.AvgTurns = float64(turns) / float64(played)
		rep.AvgGold = float64(gold) / float64(played)
	}
	return rep
}

// SortedReasons lists the report's end reasons, most frequent first.
func (r Report) SortedReasons() []string {
	out := make([]string, 0, len(r.Reasons))
	for reason := range r.Reasons {
		out = append(out, reason)
	}
	sort.Slice(out, func(i, j int) bool {
		if r.Reasons[out[i]] != r.Reasons[out[j]] {
			return r.Reasons[out[i]] > r.Reasons[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
