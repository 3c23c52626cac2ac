// Package run drives a single run: the turn loop that refreshes the quest
// board, lets the captain pin quests, moves every pirate along and ends the
// run when the crew is broke, gone or wanted by the Navy.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/worldmap"
)

var (
	// ErrInvalidChoice marks a captain answer that should be asked again.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrTooManyInvalidInputs ends a run whose captain keeps answering
	// nonsense.
	ErrTooManyInvalidInputs = errors.New("too many invalid inputs")
	// ErrGameOver is returned by NextTurn once the run has ended.
	ErrGameOver = errors.New("run is over")
)

// MaxInvalidInputs bounds how often a single question is asked again.
const MaxInvalidInputs = 25

// Reasons a run ends.
const (
	ReasonNotoriety = "Your deeds travelled far and wide... Right in the Navy's ears!"
	ReasonBroke     = "Empty coffers!"
	ReasonNoCrew    = "Your crew is all gone!"
)

const (
	DefaultMaxNotoriety  = 30
	DefaultQuestsPerTurn = 2
	DefaultGold          = 500
)

// Bank is the content a run draws from.
type Bank interface {
	quest.TemplateSource
	ChainRoots() []quest.Template
	PiratesUpToLevel(level int) []crew.Template
	Encounters() []encounter.Template
}

// Options configures a run.
type Options struct {
	Seed int64
	// Source overrides the generator source built from Seed.
	Source          rand.Source
	Gold            int
	MaxNotoriety    int
	QuestsPerTurn   int
	WorldMap        bool
	QuestsToSpawn   int
	EncounterChance float64
	// Level caps which bank pirates can be recruited mid-run.
	Level int
	// Reserve holds unlocked pirates left ashore; recruits come from here
	// first.
	Reserve []*crew.Pirate
	Sink    Sink
	Logger  *slog.Logger
}

// DefaultOptions returns the options of a standard run.
func DefaultOptions() Options {
	return Options{
		Gold:          DefaultGold,
		MaxNotoriety:  DefaultMaxNotoriety,
		QuestsPerTurn: DefaultQuestsPerTurn,
		WorldMap:      true,
		QuestsToSpawn: worldmap.DefaultQuestsToSpawn,
		Level:         1,
	}
}

// Summary is how a run ended.
type Summary struct {
	RunID     string
	Seed      int64
	Turns     int
	Gold      int
	Notoriety int
	Reason    string
	Crew      []*crew.Pirate
	Stranded  []*crew.Pirate
	Recruits  []*crew.Pirate
}

// Run is one playthrough. It is not safe for concurrent use; a UI must drive
// it from a single goroutine.
type Run struct {
	state      *State
	captain    Captain
	sink       Sink
	worldMap   *worldmap.Map
	encounters *encounter.Manager
	opts       Options
	logger     *slog.Logger
	over       bool
	reason     string
}

// New sets up a run for the given crew. Every pirate is bound to the run's
// generator and factory.
func New(bank Bank, pirates []*crew.Pirate, captain Captain, opts Options) (*Run, error) {
	if captain == nil {
		return nil, errors.New("run needs a captain")
	}
	if opts.MaxNotoriety <= 0 {
		opts.MaxNotoriety = DefaultMaxNotoriety
	}
	if opts.Level < 1 {
		opts.Level = 1
	}
	src := opts.Source
	if src == nil {
		src = rand.NewSource(opts.Seed)
	}
	rng := rand.New(src)

	id := uuid.New()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", id.String())

	factory := quest.NewFactory(bank, rng)
	s := &State{
		ID:           id,
		Seed:         opts.Seed,
		Gold:         opts.Gold,
		MaxNotoriety: opts.MaxNotoriety,
		crew:         append([]*crew.Pirate(nil), pirates...),
		reserve:      append([]*crew.Pirate(nil), opts.Reserve...),
		rng:          rng,
		factory:      factory,
		bank:         bank,
		level:        opts.Level,
		logger:       logger,
	}
	for _, p := range s.crew {
		p.JoinRun(rng, factory, logger)
	}

	r := &Run{
		state:      s,
		captain:    captain,
		sink:       opts.Sink,
		encounters: encounter.NewManager(bank.Encounters(), rng),
		opts:       opts,
		logger:     logger,
	}
	if opts.WorldMap {
		m, err := worldmap.Generate(factory, bank.ChainRoots(), opts.QuestsToSpawn, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate world map: %w", err)
		}
		r.worldMap = m
	}
	return r, nil
}

// State exposes the run state. Callers must not touch it while a turn is
// being played.
func (r *Run) State() *State { return r.state }

// WorldMap is the run's map, nil when the run has none.
func (r *Run) WorldMap() *worldmap.Map { return r.worldMap }

// Board returns a snapshot for display.
func (r *Run) Board() Board { return r.state.board() }

// Over reports whether the run has ended and why.
func (r *Run) Over() (bool, string) { return r.over, r.reason }

// Pin moves q from the available board to the pinned board with the given
// bounty. An invalid bounty leaves q where it was.
func (r *Run) Pin(q *quest.Quest, bounty int) error {
	s := r.state
	idx := -1
	for i, a := range s.available {
		if a == q {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q is not on the available board", ErrInvalidChoice, q.Name)
	}
	if err := q.SetBounty(bounty); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChoice, err)
	}
	s.available = append(s.available[:idx:idx], s.available[idx+1:]...)
	s.pinned = append(s.pinned, pin{quest: q, expiresIn: q.PinDuration()})
	q.OnPinned()
	r.logger.Debug("quest pinned", "quest", q.Name, "bounty", bounty)
	return nil
}

// Play runs turns until the run is over.
func (r *Run) Play(ctx context.Context) (Summary, error) {
	r.logger.Info("run started", "seed", r.state.Seed, "crew", len(r.state.crew), "gold", r.state.Gold)
	for !r.over {
		if err := r.NextTurn(ctx); err != nil {
			return r.Summary(), err
		}
	}
	sum := r.Summary()
	r.logger.Info("run over", "turns", sum.Turns, "gold", sum.Gold, "notoriety", sum.Notoriety, "reason", sum.Reason)
	return sum, nil
}

// Summary describes the run so far.
func (r *Run) Summary() Summary {
	s := r.state
	return Summary{
		RunID:     s.ID.String(),
		Seed:      s.Seed,
		Turns:     s.Turn,
		Gold:      s.Gold,
		Notoriety: s.Notoriety,
		Reason:    r.reason,
		Crew:      s.Pirates(),
		Stranded:  s.Stranded(),
		Recruits:  s.Recruits(),
	}
}

// NextTurn plays one turn.
func (r *Run) NextTurn(ctx context.Context) error {
	if r.over {
		return ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s := r.state
	s.Turn++
	s.turnLog = append(s.turnLog, nil)

	r.expirePinned()
	if err := r.refreshBoard(); err != nil {
		return err
	}
	if err := r.pinning(ctx); err != nil {
		return err
	}

	for _, p := range s.Pirates() {
		if !r.onRoster(p) {
			continue
		}
		if err := r.act(ctx, p); err != nil {
			return err
		}
	}

	if r.sink != nil {
		if err := r.sink.Publish(ctx, s.ID.String(), s.Turn, s.TurnLog(s.Turn)); err != nil {
			r.logger.Warn("failed to publish turn log", "turn", s.Turn, "error", err)
		}
	}

	if over, reason := r.checkGameOver(); over {
		r.over, r.reason = true, reason
	}
	return nil
}

func (r *Run) note(lines ...string) {
	s := r.state
	s.turnLog[len(s.turnLog)-1] = append(s.turnLog[len(s.turnLog)-1], lines...)
}

func (r *Run) expirePinned() {
	s := r.state
	kept := s.pinned[:0]
	for _, p := range s.pinned {
		p.expiresIn--
		if p.expiresIn <= 0 {
			r.note(fmt.Sprintf("📌 Nobody took \"%s\" and it was torn off the board", p.quest.Name))
			r.logger.Debug("pinned quest expired", "quest", p.quest.Name)
			continue
		}
		kept = append(kept, p)
	}
	s.pinned = kept
}

// refreshBoard posts an exploration quest for every undiscovered region.
// Once the map holds nothing more to explore, random chain roots keep the
// board stocked.
func (r *Run) refreshBoard() error {
	s := r.state
	if r.worldMap != nil {
		if len(r.worldMap.Undiscovered()) > 0 {
			qs, err := r.worldMap.ExplorationQuests(s.factory, s.InPlay)
			if err != nil {
				return err
			}
			s.PostQuests(qs...)
			return nil
		}
	}

	roots := s.bank.ChainRoots()
	posted := 0
	for _, i := range s.rng.Perm(len(roots)) {
		if posted >= r.opts.QuestsPerTurn {
			break
		}
		if s.InPlay(roots[i].Name) {
			continue
		}
		q, err := s.factory.FromTemplate(roots[i], nil)
		if err != nil {
			return err
		}
		posted += len(s.PostQuests(q))
	}
	return nil
}

func (r *Run) pinning(ctx context.Context) error {
	for len(r.state.available) > 0 {
		q, err := r.askQuest(ctx)
		if err != nil {
			return err
		}
		if q == nil {
			return nil
		}
		if err := r.askBounty(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *Run) askQuest(ctx context.Context) (*quest.Quest, error) {
	for range MaxInvalidInputs {
		b := r.Board()
		idx, err := r.captain.ChooseQuest(ctx, b)
		if err != nil {
			if errors.Is(err, ErrInvalidChoice) {
				r.captain.Warn(ctx, "Invalid option! "+err.Error())
				continue
			}
			return nil, err
		}
		if idx == SkipPinning {
			return nil, nil
		}
		if idx < 0 || idx >= len(b.Available) {
			r.captain.Warn(ctx, fmt.Sprintf("Invalid option! Pick a quest between 1 and %d.", len(b.Available)))
			continue
		}
		return b.Available[idx], nil
	}
	return nil, fmt.Errorf("choosing a quest: %w", ErrTooManyInvalidInputs)
}

func (r *Run) askBounty(ctx context.Context, q *quest.Quest) error {
	for range MaxInvalidInputs {
		bounty, err := r.captain.ChooseBounty(ctx, r.Board(), q)
		if err == nil {
			err = r.Pin(q, bounty)
		}
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrInvalidChoice) {
			return err
		}
		r.captain.Warn(ctx, "Invalid option! "+err.Error())
	}
	return fmt.Errorf("choosing a bounty for %q: %w", q.Name, ErrTooManyInvalidInputs)
}

func (r *Run) act(ctx context.Context, p *crew.Pirate) error {
	s := r.state
	if p.Quest() == nil {
		q, err := p.SelectQuest(s.pinnedQuests())
		if err != nil {
			return err
		}
		p.AssignQuest(q)
		q.OnSelected(p)
		if q.IsIdle() {
			r.note(fmt.Sprintf("💤 %s decided to %s for %d turns", p.Name(), q.Name, q.Difficulty))
			return nil
		}
		s.unpin(q)
		r.note(fmt.Sprintf("🚢 %s embarked on a voyage! %s [%s]", p.Name(), q.Name, q.Type))
		return nil
	}

	q := p.Quest()
	out, err := p.ProgressQuest()
	if err != nil {
		return err
	}
	if out.Done {
		mark, verb := "❌", "failed"
		if out.Success {
			mark, verb = "✅", "succeeded"
		}
		r.note(fmt.Sprintf("%s  %s %s the quest %s", mark, p.Name(), verb, q.Name))
		p.ClearQuest()
		for _, e := range out.Effects {
			for _, line := range e.Resolve(s) {
				r.note("\t" + line)
			}
		}
		return nil
	}

	r.note(fmt.Sprintf("🕓 %s is working on %s [%d turn(s) remaining]", p.Name(), q.Name, q.Progress))
	if q.IsIdle() || r.opts.EncounterChance <= 0 {
		return nil
	}
	if s.rng.Float64() < r.opts.EncounterChance {
		return r.encounter(ctx, p)
	}
	return nil
}

func (r *Run) encounter(ctx context.Context, p *crew.Pirate) error {
	e, ok := r.encounters.Create()
	if !ok {
		return nil
	}
	for range MaxInvalidInputs {
		choice, err := r.captain.ChooseEncounterOption(ctx, p, e)
		if err == nil {
			var lines []string
			lines, _, err = e.Resolve(r.state.rng, p, choice)
			if err == nil {
				r.note(fmt.Sprintf("\t⁉️  %s", e.Title))
				r.note(lines...)
				return nil
			}
			if errors.Is(err, encounter.ErrInvalidOption) {
				err = fmt.Errorf("%w: %w", ErrInvalidChoice, err)
			}
		}
		if !errors.Is(err, ErrInvalidChoice) {
			return err
		}
		r.captain.Warn(ctx, "Invalid option! "+err.Error())
	}
	return fmt.Errorf("choosing an encounter option: %w", ErrTooManyInvalidInputs)
}

func (r *Run) checkGameOver() (bool, string) {
	s := r.state
	switch {
	case s.Notoriety >= s.MaxNotoriety:
		return true, ReasonNotoriety
	case s.Gold < 0:
		return true, ReasonBroke
	case len(s.crew) == 0:
		return true, ReasonNoCrew
	}
	return false, ""
}

func (r *Run) onRoster(p *crew.Pirate) bool {
	for _, c := range r.state.crew {
		if c == p {
			return true
		}
	}
	return false
}
