// Package crew implements the pirates a captain sends out on quests: how
// they pick a quest off the pinned board, how their voyages progress and
// how each voyage ends.
package crew

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"

	"github.com/jwebster45206/d20"

	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/roulette"
	"github.com/guischmitd/piratesim2024/pkg/trait"
)

const (
	// MaxStat caps the effective value of every stat.
	MaxStat = 5
	// MaxMorale is the top of the morale track kept on the stat sheet.
	MaxMorale = 20
	// StartingMorale is a fresh recruit's morale.
	StartingMorale = 10

	// idleWeight is the base chance of staying ashore instead of sailing.
	idleWeight = 0.5
	// successWeight against a failure weight of 1 puts the base odds of a
	// voyage at 2:1.
	successWeight = 2.0
)

const (
	attrNavigation = "navigation"
	attrCombat     = "combat"
	attrTrickyness = "trickyness"
)

// ErrNoQuest is returned when progressing a pirate that has nothing to do.
var ErrNoQuest = errors.New("pirate has no quest")

var flavors = []string{"buccaneer", "scallywag", "do-no-good", "sailor", "pirate", "knife-juggler"}

var openers = []string{
	"arrived at the tavern like they knew everyone.",
	"was found sleeping among the crabs.",
	"used to sail with a famous captain before a bit of drama.",
	"figured this island would be a good place to find work.",
	"had a terrible accident with a fish and a potato once.",
}

// Outcome is the result of one ProgressQuest call. Done is false while the
// voyage is still under way; the other fields are set once it concludes.
type Outcome struct {
	Done        bool
	Success     bool
	Probability float64
	Effects     []quest.Effect
}

// Pirate is a member of the crew. Stats are stored raw so artifacts can be
// added and removed exactly; the values used in play are clamped to
// [0, MaxStat] and mirrored on a d20 stat sheet together with morale.
type Pirate struct {
	name        string
	description string
	trait       trait.Kind
	level       int
	flavor      string

	navigation int
	combat     int
	trickyness int

	gold     int
	log      []string
	quest    *quest.Quest
	artifact *Artifact
	sheet    *d20.Actor

	rng     *rand.Rand
	factory *quest.Factory
	logger  *slog.Logger
}

// NewPirate creates a pirate from a template. rng rolls the pirate's
// starting wallet, flavor and opening log line.
func NewPirate(t Template, rng *rand.Rand) (*Pirate, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	k, err := trait.Lookup(t.Trait)
	if err != nil {
		return nil, err
	}

	p := &Pirate{
		name:        t.Name,
		description: t.Description,
		trait:       k,
		level:       t.Level,
		flavor:      flavors[rng.Intn(len(flavors))],
		navigation:  t.Navigation,
		combat:      t.Combat,
		trickyness:  t.Trickyness,
		gold:        (5 + rng.Intn(11)) * 10,
		rng:         rng,
		logger:      slog.Default(),
	}
	p.log = []string{p.name + " " + openers[rng.Intn(len(openers))]}

	if err := p.rebuildSheet(StartingMorale); err != nil {
		return nil, err
	}
	return p, nil
}

// JoinRun binds the pirate to a run's generator and quest factory and
// clears whatever it was doing in a previous run.
func (p *Pirate) JoinRun(rng *rand.Rand, factory *quest.Factory, logger *slog.Logger) {
	p.rng = rng
	p.factory = factory
	if logger != nil {
		p.logger = logger.With("pirate", p.name)
	}
	p.quest = nil
}

func (p *Pirate) Name() string        { return p.name }
func (p *Pirate) Description() string { return p.description }
func (p *Pirate) Trait() trait.Kind   { return p.trait }
func (p *Pirate) Level() int          { return p.level }
func (p *Pirate) Flavor() string      { return p.flavor }
func (p *Pirate) Gold() int           { return p.gold }

// Quest is the pirate's current quest, nil when free.
func (p *Pirate) Quest() *quest.Quest { return p.quest }

// Artifact is the equipped artifact, nil when none.
func (p *Pirate) Artifact() *Artifact { return p.artifact }

// Sheet is the pirate's d20 stat sheet. Treat it as read-only.
func (p *Pirate) Sheet() *d20.Actor { return p.sheet }

// CaptainsLog returns a copy of the pirate's log, oldest line first.
func (p *Pirate) CaptainsLog() []string {
	return append([]string(nil), p.log...)
}

// Note appends a line to the captain's log.
func (p *Pirate) Note(line string) { p.log = append(p.log, line) }

func (p *Pirate) Navigation() int { return p.stat(attrNavigation) }
func (p *Pirate) Combat() int     { return p.stat(attrCombat) }
func (p *Pirate) Trickyness() int { return p.stat(attrTrickyness) }

// Morale is the pirate's current morale, kept as hit points on the sheet.
func (p *Pirate) Morale() int { return p.sheet.HP() }

// AdjustMorale moves morale by delta, keeping it within [1, MaxMorale], and
// returns the new value.
func (p *Pirate) AdjustMorale(delta int) (int, error) {
	next := min(max(p.Morale()+delta, 1), p.sheet.MaxHP())
	if err := p.sheet.SetHP(next); err != nil {
		return p.Morale(), fmt.Errorf("failed to set morale of %s: %w", p.name, err)
	}
	return next, nil
}

// RelevantStat is the effective stat a voyage of type t is rolled with.
func (p *Pirate) RelevantStat(t quest.Type) int {
	switch t {
	case quest.TypeTreasure, quest.TypeRescue, quest.TypeSmuggling, quest.TypeTheft:
		return p.Trickyness()
	case quest.TypeExploration, quest.TypeDelivery, quest.TypeFetch:
		return p.Navigation()
	case quest.TypeCombat, quest.TypeEscort:
		return p.Combat()
	}
	return 0
}

// BountyThreshold is the lowest bounty ratio, in percent of the reward, the
// pirate will sail for.
func (p *Pirate) BountyThreshold() int { return p.trait.BountyThreshold() }

// IsCautious reports whether the pirate keeps a low profile.
func (p *Pirate) IsCautious() bool { return p.trait == trait.Cautious }

// OnAQuest reports whether the pirate is out on a voyage. Idle time ashore
// does not count.
func (p *Pirate) OnAQuest() bool { return p.quest != nil && !p.quest.IsIdle() }

// ReceiveGold adds amount to the pirate's wallet.
func (p *Pirate) ReceiveGold(amount int) { p.gold += amount }

// AssignQuest makes q the pirate's current quest, resetting its progress.
// Anything the pirate was doing is abandoned.
func (p *Pirate) AssignQuest(q *quest.Quest) {
	if p.quest != nil {
		p.Note(fmt.Sprintf(`"%s" was interrupted, I will now have to go "%s"`, p.quest.Name, q.Name))
	}
	q.ResetProgress()
	p.quest = q
}

// ClearQuest frees the pirate.
func (p *Pirate) ClearQuest() { p.quest = nil }

// RandomIdleQuest builds a fresh idle quest bank and picks one from it.
func (p *Pirate) RandomIdleQuest() (*quest.Quest, error) {
	if p.factory == nil {
		return quest.NewIdleQuest("Stay at the tavern", 1), nil
	}
	bank, err := p.factory.IdleQuests()
	if err != nil {
		return nil, fmt.Errorf("failed to build idle quests: %w", err)
	}
	if len(bank) == 0 {
		return quest.NewIdleQuest("Stay at the tavern", 1), nil
	}
	return bank[p.rng.Intn(len(bank))], nil
}

// SelectQuest picks the quest the pirate wants from the pinned board.
// Staying ashore is always an option. Quests whose bounty ratio is below the
// pirate's threshold are never picked.
func (p *Pirate) SelectQuest(pinned []*quest.Quest) (*quest.Quest, error) {
	if len(pinned) == 0 {
		return p.RandomIdleQuest()
	}

	sel := roulette.New[*quest.Quest](p.rng)
	for _, q := range pinned {
		if err := sel.Add(q, 1); err != nil {
			return nil, err
		}
	}
	idle, err := p.RandomIdleQuest()
	if err != nil {
		return nil, err
	}
	if err := sel.Add(idle, idleWeight); err != nil {
		return nil, err
	}

	for q, m := range p.trait.SelectionModifiers(sel.Items()) {
		if err := sel.ApplyModifier(q, m); err != nil {
			return nil, err
		}
	}

	threshold := p.BountyThreshold()
	for _, q := range pinned {
		if q.BountyRatio() < threshold {
			p.Note(fmt.Sprintf(`%s thinks "%s" is not worth it for this bounty.`, p.name, q.Name))
			_ = sel.SetWeight(q, 0)
			continue
		}
		// A quest the trait rules out stays ruled out.
		if w, _ := sel.Weight(q); w > 0 {
			_ = sel.ApplyModifier(q, roulette.Add(float64(q.Bounty())/100))
		}
	}

	favorite, _ := sel.MostLikely()
	chosen, ok := sel.Draw()
	if !ok {
		chosen = idle
	}

	switch {
	case chosen.IsIdle():
		p.Note(fmt.Sprintf(`Took some time for myself to go "%s"`, chosen.Name))
	case chosen == favorite:
		p.Note(fmt.Sprintf(`My crew will love to go "%s"!`, chosen.Name))
	default:
		p.Note(fmt.Sprintf(`I'd normally prefer other stuff, but let's try to go "%s"`, chosen.Name))
	}
	p.logger.Debug("quest selected", "quest", chosen.Name, "threshold", threshold, "candidates", sel.Len())
	return chosen, nil
}

// ProgressQuest advances the current quest by one turn. While the voyage is
// under way the returned Outcome has Done unset. On the last leg the pirate
// rolls for success: base odds 2:1, then the trait's resolution modifier,
// then a bonus of 10% per point the relevant stat beats the difficulty.
func (p *Pirate) ProgressQuest() (Outcome, error) {
	q := p.quest
	if q == nil {
		return Outcome{}, ErrNoQuest
	}

	if q.Progress > 1 {
		base := 1
		if p.Navigation() > 3 {
			base = 2
		}
		step := max(1, base+p.trait.ProgressModifier(q))
		q.Progress = max(1, q.Progress-step)
		return Outcome{}, nil
	}

	if q.IsIdle() {
		return Outcome{Done: true, Success: true, Probability: 1, Effects: q.SuccessEffects}, nil
	}

	sel := roulette.New[bool](p.rng)
	_ = sel.Add(true, successWeight)
	_ = sel.Add(false, 1)
	_ = sel.ApplyModifier(true, p.trait.ResolutionModifier(q))
	diff := max(0, p.RelevantStat(q.Type)-q.Difficulty)
	_ = sel.ApplyModifier(true, roulette.Mul(1+0.1*float64(diff)))

	prob := sel.Probabilities()[true]
	success, _ := sel.Draw()

	verb := "Failed"
	if success {
		verb = "Succeeded"
	}
	p.Note(fmt.Sprintf(`%s the quest "%s" with probability %s%% (odds = %s:1)`,
		verb, q.Name, formatRounded(prob*100, 1), formatOdds(prob)))
	p.logger.Debug("voyage resolved", "quest", q.Name, "success", success, "probability", prob)

	return Outcome{Done: true, Success: success, Probability: prob, Effects: q.Effects(success)}, nil
}

// Equip gives the pirate an artifact, taking off any artifact already
// carried.
func (p *Pirate) Equip(a *Artifact) error {
	if p.artifact != nil {
		if _, err := p.Unequip(); err != nil {
			return err
		}
	}
	p.artifact = a
	p.navigation += a.Navigation
	p.combat += a.Combat
	p.trickyness += a.Trickyness
	return p.rebuildSheet(p.Morale())
}

// Unequip takes the artifact off and returns it. It is a no-op when nothing
// is equipped.
func (p *Pirate) Unequip() (*Artifact, error) {
	a := p.artifact
	if a == nil {
		return nil, nil
	}
	p.artifact = nil
	p.navigation -= a.Navigation
	p.combat -= a.Combat
	p.trickyness -= a.Trickyness
	return a, p.rebuildSheet(p.Morale())
}

// RawStats returns the stored navigation, combat and trickyness before
// clamping.
func (p *Pirate) RawStats() (navigation, combat, trickyness int) {
	return p.navigation, p.combat, p.trickyness
}

func (p *Pirate) String() string {
	return fmt.Sprintf("| N %d - C %d - T %d | %s, a %s %s",
		p.Navigation(), p.Combat(), p.Trickyness(), p.name, p.trait, p.flavor)
}

func (p *Pirate) stat(key string) int {
	if v, ok := p.sheet.Attribute(key); ok {
		return v
	}
	return 0
}

func (p *Pirate) rebuildSheet(morale int) error {
	sheet, err := d20.NewActor(p.name).
		WithHP(MaxMorale).
		WithAC(10).
		WithAttributes(map[string]int{
			attrNavigation: clampStat(p.navigation),
			attrCombat:     clampStat(p.combat),
			attrTrickyness: clampStat(p.trickyness),
		}).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build stat sheet for %s: %w", p.name, err)
	}
	if morale != MaxMorale && morale > 0 {
		if err := sheet.SetHP(morale); err != nil {
			return fmt.Errorf("failed to set morale of %s: %w", p.name, err)
		}
	}
	p.sheet = sheet
	return nil
}

func clampStat(v int) int { return min(max(v, 0), MaxStat) }

func formatRounded(v float64, places int) string {
	scale := math.Pow10(places)
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', places, 64)
}

func formatOdds(p float64) string {
	if p >= 1 {
		return "inf"
	}
	odds := math.Round(p/(1-p)*1000) / 1000
	return strconv.FormatFloat(odds, 'f', -1, 64)
}
