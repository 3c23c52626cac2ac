package quest

import "math/rand"

// EffectKind names an effect variant so effect lists can be inspected.
type EffectKind string

const (
	KindReward           EffectKind = "reward"
	KindNotoriety        EffectKind = "notoriety"
	KindBounty           EffectKind = "bounty"
	KindIncapacitateOne  EffectKind = "incapacitate_one"
	KindIncapacitateMany EffectKind = "incapacitate_many"
	KindNewQuest         EffectKind = "new_quest"
	KindUnlockPirate     EffectKind = "unlock_pirate"
	KindRegionDiscovered EffectKind = "region_discovered"
	KindRetry            EffectKind = "retry"
	KindRescueQuestTaker EffectKind = "rescue_quest_taker"
	KindReturnCrewmate   EffectKind = "return_crewmate"
)

// Effect is an outcome handler attached to a quest branch. Resolve applies
// the effect to the run exactly once and returns the narration for it.
// Implementations are pointer types: the same instance may sit in both the
// success and the failure list and carries its own bound state.
type Effect interface {
	Kind() EffectKind
	Resolve(w World) []string
}

// PinHook is implemented by effects that capture state when the captain
// pins their quest.
type PinHook interface {
	OnPinned(q *Quest)
}

// SelectHook is implemented by effects that capture the crewmate who takes
// their quest.
type SelectHook interface {
	OnSelected(taker Crewmate)
}

// Crewmate is what effects need from a pirate.
type Crewmate interface {
	Name() string
	AssignQuest(q *Quest)
	OnAQuest() bool
	ReceiveGold(amount int)
	IsCautious() bool
}

// Region is a stretch of sea that an exploration quest can discover.
type Region interface {
	Discovered() bool
	Explore() *Quest
	Quest() *Quest
	Distance() int
	String() string
}

// World is the run state as seen by effects.
type World interface {
	Rand() *rand.Rand
	Factory() *Factory

	AddGold(amount int)
	AddNotoriety(delta int)

	Crew() []Crewmate
	// PostQuests adds quests to the available board, skipping any whose name
	// is already in play. It returns the quests actually added.
	PostQuests(qs ...*Quest) []*Quest
	// StrandCrewmate takes c off the active crew until rescued.
	StrandCrewmate(c Crewmate) bool
	// ReturnCrewmate brings a stranded crewmate back.
	ReturnCrewmate(c Crewmate) bool
	// RecruitPirate adds a random unlocked pirate to the crew and returns
	// its name.
	RecruitPirate() (string, bool)
}

// HasKind reports whether effects contains a variant of kind k.
func HasKind(effects []Effect, k EffectKind) bool {
	for _, e := range effects {
		if e.Kind() == k {
			return true
		}
	}
	return false
}
