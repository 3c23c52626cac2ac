package quest

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// MaxChainDepth bounds how many follow-up quests a chain may build eagerly.
const MaxChainDepth = 16

var (
	// ErrChainCycle is returned when next_in_chain links loop back on
	// themselves or run deeper than MaxChainDepth.
	ErrChainCycle = errors.New("quest chain cycle")
	// ErrUnknownTemplate is returned when a chain points at a missing id.
	ErrUnknownTemplate = errors.New("unknown quest template")
)

// TemplateSource is the part of the content bank the factory reads.
type TemplateSource interface {
	QuestTemplate(id int) (Template, bool)
	IdleTemplates() []Template
}

// Factory builds quests from templates. All of its randomness comes from
// the run's generator.
type Factory struct {
	source TemplateSource
	rng    *rand.Rand
}

// NewFactory creates a factory reading templates from source.
func NewFactory(source TemplateSource, rng *rand.Rand) *Factory {
	return &Factory{source: source, rng: rng}
}

// Rand returns the generator the factory draws from.
func (f *Factory) Rand() *rand.Rand { return f.rng }

// FromTemplate builds a quest and its effect lists. When region is set and
// not yet discovered, the quest also discovers it.
func (f *Factory) FromTemplate(t Template, region Region) (*Quest, error) {
	return f.build(t, region, make(map[int]bool), 0)
}

// IdleQuests builds one quest from every idle template.
func (f *Factory) IdleQuests() ([]*Quest, error) {
	templates := f.source.IdleTemplates()
	quests := make([]*Quest, 0, len(templates))
	for _, t := range templates {
		q, err := f.FromTemplate(t, nil)
		if err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}
	return quests, nil
}

// RescueQuest builds the quest that brings a stranded crewmate home.
func (f *Factory) RescueQuest(c Crewmate) (*Quest, error) {
	q, err := f.FromTemplate(Template{
		Name:             "Rescue " + c.Name(),
		Type:             TypeRescue,
		DifficultyMin:    2,
		DifficultyMax:    4,
		RewardMin:        0,
		RewardMax:        50,
		SuccessNotoriety: 1,
		FailureNotoriety: 1,
		Expiration:       10,
		Retry:            true,
	}, nil)
	if err != nil {
		return nil, err
	}
	q.SuccessEffects = append(q.SuccessEffects, &ReturnCrewmateEffect{Crewmate: c})
	return q, nil
}

// NewIdleQuest builds downtime of a fixed length, used to keep a pirate
// ashore after a mishap.
func NewIdleQuest(name string, turns int) *Quest {
	turns = max(turns, 1)
	return &Quest{
		Name:           name,
		Type:           TypeIdle,
		Difficulty:     turns,
		Progress:       turns,
		Distance:       0,
		SuccessEffects: []Effect{&RewardEffect{Amount: 0}},
	}
}

func (f *Factory) build(t Template, region Region, visited map[int]bool, depth int) (*Quest, error) {
	if depth > MaxChainDepth {
		return nil, fmt.Errorf("%w: chain deeper than %d at template %d", ErrChainCycle, MaxChainDepth, t.ID)
	}
	if t.ID != 0 {
		if visited[t.ID] {
			return nil, fmt.Errorf("%w: template %d (%s) repeats", ErrChainCycle, t.ID, t.Name)
		}
		visited[t.ID] = true
	}

	typ, err := ParseType(string(t.Type))
	if err != nil {
		return nil, fmt.Errorf("template %d: %w", t.ID, err)
	}

	difficulty := max(1, f.between(t.DifficultyMin, t.DifficultyMax))
	reward := f.between(floorDiv(t.RewardMin, 10), floorDiv(t.RewardMax, 10)) * 10

	q := &Quest{
		Name:       t.Name,
		Type:       typ,
		Difficulty: difficulty,
		Progress:   difficulty,
		Reward:     reward,
		Expiration: t.Expiration,
		Distance:   3,
		TemplateID: t.ID,
	}

	var success, failure []Effect

	if region != nil {
		q.Distance = region.Distance()
		if !region.Discovered() {
			success = append(success, &RegionDiscoveredEffect{Region: region})
			if rq := region.Quest(); rq != nil {
				success = append(success, &NewQuestEffect{Quests: []*Quest{rq}})
			}
		}
	}

	rewardEffect := &RewardEffect{Amount: reward}
	if reward >= 0 || typ == TypeIdle {
		success = append(success, rewardEffect)
	} else {
		failure = append(failure, rewardEffect)
	}

	if t.Retry && typ != TypeIdle {
		failure = append(failure, &RetryEffect{Quest: q})
	}

	if t.NextInChain != 0 {
		next, ok := f.source.QuestTemplate(t.NextInChain)
		if !ok {
			return nil, fmt.Errorf("%w: %d (next in chain of %d)", ErrUnknownTemplate, t.NextInChain, t.ID)
		}
		follow, err := f.build(next, nil, visited, depth+1)
		if err != nil {
			return nil, err
		}
		success = append(success, &NewQuestEffect{Quests: []*Quest{follow}})
	}

	if t.UnlocksPirate {
		success = append(success, &UnlockPirateEffect{})
	}

	if typ != TypeIdle {
		success = append(success, &NotorietyEffect{Delta: t.SuccessNotoriety})
		failure = append(failure, &NotorietyEffect{Delta: t.FailureNotoriety})

		bounty := &BountyEffect{}
		success = append(success, bounty)
		failure = append(failure, bounty)
	}

	name := strings.ToLower(t.Name)
	switch {
	case typ == TypeCombat && difficulty >= 4:
		failure = append(failure, &RescueQuestTakerEffect{})
	case typ == TypeCombat:
		failure = append(failure, &IncapacitateOneEffect{
			Turns:     f.between(1, 3),
			QuestName: "Fix the holes in the hull",
		})
	case typ == TypeTheft:
		failure = append(failure, &IncapacitateOneEffect{
			Turns:     f.between(1, 3),
			QuestName: "Be locked up for a while",
		})
	case typ == TypeIdle && strings.Contains(name, "drink"):
		success = append(success, &IncapacitateOneEffect{
			Turns:     f.between(1, 3),
			QuestName: "Get over the hangover",
		})
	case typ == TypeIdle && strings.Contains(name, "fight"):
		success = append(success, &IncapacitateManyEffect{
			Count:     f.between(1, 2),
			Turns:     f.between(1, 3),
			QuestName: "Heal the wounds",
			Eligible:  func(c Crewmate) bool { return !c.OnAQuest() },
		})
	}

	q.SuccessEffects = success
	q.FailureEffects = failure
	return q, nil
}

// between returns a uniform integer in [lo, hi].
func (f *Factory) between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + f.rng.Intn(hi-lo+1)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
