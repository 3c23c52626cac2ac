package quest

import (
	"fmt"

	"github.com/guischmitd/piratesim2024/pkg/roulette"
)

// RewardEffect adds (or, when negative, takes) gold from the coffers.
type RewardEffect struct {
	Amount int
}

func (e *RewardEffect) Kind() EffectKind { return KindReward }

func (e *RewardEffect) Resolve(w World) []string {
	w.AddGold(e.Amount)
	switch {
	case e.Amount > 0:
		return []string{fmt.Sprintf("🤑 %d gold pieces were added to the coffers!", e.Amount)}
	case e.Amount < 0:
		return []string{fmt.Sprintf("💸 %d gold pieces were lost", -e.Amount)}
	}
	return nil
}

// NotorietyEffect moves the run's notoriety. Cautious quest takers never
// lower it: a negative delta bound to a cautious taker resolves as 0.
type NotorietyEffect struct {
	Delta int
	taker Crewmate
}

func (e *NotorietyEffect) Kind() EffectKind { return KindNotoriety }

func (e *NotorietyEffect) OnSelected(taker Crewmate) { e.taker = taker }

func (e *NotorietyEffect) Resolve(w World) []string {
	delta := e.Delta
	if delta < 0 && e.taker != nil && e.taker.IsCautious() {
		return []string{fmt.Sprintf("🤫 %s kept too low a profile for anyone to forget the crew's deeds", e.taker.Name())}
	}
	w.AddNotoriety(delta)
	switch {
	case delta > 0:
		return []string{fmt.Sprintf("⚠️  Notoriety increased by %d", delta)}
	case delta < 0:
		return []string{fmt.Sprintf("🌫️  Notoriety decreased by %d", -delta)}
	}
	return nil
}

// BountyEffect pays the quest taker the bounty promised when the quest was
// pinned. The same instance sits in both outcome lists, so it pays on
// success and failure alike, once per pin.
type BountyEffect struct {
	bounty int
	taker  Crewmate
	paid   bool
}

func (e *BountyEffect) Kind() EffectKind { return KindBounty }

func (e *BountyEffect) OnPinned(q *Quest) {
	e.bounty = q.Bounty()
	e.paid = false
}

func (e *BountyEffect) OnSelected(taker Crewmate) { e.taker = taker }

// Amount is the bounty captured at pin time.
func (e *BountyEffect) Amount() int { return e.bounty }

func (e *BountyEffect) Resolve(w World) []string {
	if e.paid || e.taker == nil {
		return nil
	}
	e.paid = true
	if e.bounty == 0 {
		return nil
	}
	w.AddGold(-e.bounty)
	e.taker.ReceiveGold(e.bounty)
	return []string{fmt.Sprintf("💰 %s took a %d gold cut", e.taker.Name(), e.bounty)}
}

// IncapacitateOneEffect forces the quest taker into downtime.
type IncapacitateOneEffect struct {
	Turns     int
	QuestName string
	target    Crewmate
}

func (e *IncapacitateOneEffect) Kind() EffectKind { return KindIncapacitateOne }

func (e *IncapacitateOneEffect) OnSelected(taker Crewmate) { e.target = taker }

func (e *IncapacitateOneEffect) Resolve(w World) []string {
	if e.target == nil {
		return nil
	}
	e.target.AssignQuest(NewIdleQuest(e.QuestName, e.Turns))
	return []string{fmt.Sprintf("%s needs some time to %q (%d turns)", e.target.Name(), e.QuestName, e.Turns)}
}

// IncapacitateManyEffect sends random crewmates into downtime. Eligible,
// when set, filters who can be picked; Exclude is never picked.
type IncapacitateManyEffect struct {
	Count     int
	Turns     int
	QuestName string
	Eligible  func(Crewmate) bool
	Exclude   []Crewmate
}

func (e *IncapacitateManyEffect) Kind() EffectKind { return KindIncapacitateMany }

func (e *IncapacitateManyEffect) Resolve(w World) []string {
	deck := roulette.NewDeck[Crewmate](w.Rand())
	for _, c := range w.Crew() {
		if e.excluded(c) || (e.Eligible != nil && !e.Eligible(c)) {
			continue
		}
		// Crew members are distinct, Add cannot fail here.
		_ = deck.Add(c, 1)
	}

	var lines []string
	for _, c := range deck.DrawN(e.Count, false) {
		if c == nil {
			continue
		}
		c.AssignQuest(NewIdleQuest(e.QuestName, e.Turns))
		lines = append(lines, fmt.Sprintf("%s will %q (%d turns)", c.Name(), e.QuestName, e.Turns))
	}
	return lines
}

func (e *IncapacitateManyEffect) excluded(c Crewmate) bool {
	for _, x := range e.Exclude {
		if x == c {
			return true
		}
	}
	return false
}

// NewQuestEffect puts follow-up quests on the available board.
type NewQuestEffect struct {
	Quests []*Quest
}

func (e *NewQuestEffect) Kind() EffectKind { return KindNewQuest }

func (e *NewQuestEffect) Resolve(w World) []string {
	added := w.PostQuests(e.Quests...)
	if len(added) == 0 {
		return nil
	}
	lines := []string{"❕ New quests unlocked:"}
	for _, q := range added {
		lines = append(lines, "\t"+q.Name)
	}
	return lines
}

// UnlockPirateEffect recruits a new pirate into the crew.
type UnlockPirateEffect struct{}

func (e *UnlockPirateEffect) Kind() EffectKind { return KindUnlockPirate }

func (e *UnlockPirateEffect) Resolve(w World) []string {
	name, ok := w.RecruitPirate()
	if !ok {
		return []string{"Nobody new was willing to sign the articles"}
	}
	return []string{fmt.Sprintf("🏴‍☠️ %s joined the crew!", name)}
}

// RegionDiscoveredEffect marks a region of the world map as explored.
type RegionDiscoveredEffect struct {
	Region Region
}

func (e *RegionDiscoveredEffect) Kind() EffectKind { return KindRegionDiscovered }

func (e *RegionDiscoveredEffect) Resolve(w World) []string {
	if e.Region.Discovered() {
		return nil
	}
	e.Region.Explore()
	return []string{fmt.Sprintf("🗺️  Discovered %s", e.Region)}
}

// RetryEffect puts a failed quest back on the available board.
type RetryEffect struct {
	Quest *Quest
}

func (e *RetryEffect) Kind() EffectKind { return KindRetry }

func (e *RetryEffect) Resolve(w World) []string {
	e.Quest.ResetProgress()
	e.Quest.bounty = 0
	if len(w.PostQuests(e.Quest)) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("🔁 %q is back on the board", e.Quest.Name)}
}

// RescueQuestTakerEffect strands the quest taker and posts a quest to
// bring them back.
type RescueQuestTakerEffect struct {
	taker Crewmate
}

func (e *RescueQuestTakerEffect) Kind() EffectKind { return KindRescueQuestTaker }

func (e *RescueQuestTakerEffect) OnSelected(taker Crewmate) { e.taker = taker }

func (e *RescueQuestTakerEffect) Resolve(w World) []string {
	if e.taker == nil || !w.StrandCrewmate(e.taker) {
		return nil
	}
	lines := []string{fmt.Sprintf("⛓️  %s was stranded and needs rescue!", e.taker.Name())}
	rescue, err := w.Factory().RescueQuest(e.taker)
	if err != nil {
		return append(lines, fmt.Sprintf("Nobody knows where to look for %s", e.taker.Name()))
	}
	return append(lines, (&NewQuestEffect{Quests: []*Quest{rescue}}).Resolve(w)...)
}

// ReturnCrewmateEffect brings a stranded crewmate back to the crew.
type ReturnCrewmateEffect struct {
	Crewmate Crewmate
}

func (e *ReturnCrewmateEffect) Kind() EffectKind { return KindReturnCrewmate }

func (e *ReturnCrewmateEffect) Resolve(w World) []string {
	if !w.ReturnCrewmate(e.Crewmate) {
		return nil
	}
	return []string{fmt.Sprintf("🎉 %s is back with the crew!", e.Crewmate.Name())}
}
