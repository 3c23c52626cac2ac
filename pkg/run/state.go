package run

import (
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/quest"
)

type pin struct {
	quest     *quest.Quest
	expiresIn int
}

// State is everything a run tracks between turns. Quest effects see it
// through the quest.World interface.
type State struct {
	ID           uuid.UUID
	Seed         int64
	Turn         int
	Gold         int
	Notoriety    int
	MaxNotoriety int

	available []*quest.Quest
	pinned    []pin
	crew      []*crew.Pirate
	stranded  []*crew.Pirate
	recruits  []*crew.Pirate
	reserve   []*crew.Pirate
	turnLog   [][]string

	rng     *rand.Rand
	factory *quest.Factory
	bank    Bank
	level   int
	logger  *slog.Logger
}

var _ quest.World = (*State)(nil)

func (s *State) Rand() *rand.Rand        { return s.rng }
func (s *State) Factory() *quest.Factory { return s.factory }

// AddGold changes the coffers. Gold may go negative, which ends the run.
func (s *State) AddGold(amount int) { s.Gold += amount }

// AddNotoriety changes notoriety within [0, MaxNotoriety].
func (s *State) AddNotoriety(delta int) {
	s.Notoriety = min(max(s.Notoriety+delta, 0), s.MaxNotoriety)
}

// Crew returns the active roster as quest crewmates.
func (s *State) Crew() []quest.Crewmate {
	out := make([]quest.Crewmate, len(s.crew))
	for i, p := range s.crew {
		out[i] = p
	}
	return out
}

// Pirates returns the active roster in turn order.
func (s *State) Pirates() []*crew.Pirate { return append([]*crew.Pirate(nil), s.crew...) }

// Stranded returns the pirates waiting for rescue.
func (s *State) Stranded() []*crew.Pirate { return append([]*crew.Pirate(nil), s.stranded...) }

// Recruits returns the pirates who joined during the run.
func (s *State) Recruits() []*crew.Pirate { return append([]*crew.Pirate(nil), s.recruits...) }

// Available returns the quests that can be pinned.
func (s *State) Available() []*quest.Quest { return append([]*quest.Quest(nil), s.available...) }

// Pinned returns the pinned board with expiration countdowns.
func (s *State) Pinned() []PinnedQuest {
	out := make([]PinnedQuest, len(s.pinned))
	for i, p := range s.pinned {
		out[i] = PinnedQuest{Quest: p.quest, ExpiresIn: p.expiresIn}
	}
	return out
}

// TurnLog returns the log of turn n (1-based), nil if it has not happened.
func (s *State) TurnLog(n int) []string {
	if n < 1 || n > len(s.turnLog) {
		return nil
	}
	return append([]string(nil), s.turnLog[n-1]...)
}

// InPlay reports whether a quest with this name is available, pinned or
// being sailed.
func (s *State) InPlay(name string) bool {
	for _, q := range s.available {
		if q.Name == name {
			return true
		}
	}
	for _, p := range s.pinned {
		if p.quest.Name == name {
			return true
		}
	}
	for _, p := range s.crew {
		if q := p.Quest(); q != nil && q.Name == name {
			return true
		}
	}
	return false
}

// PostQuests adds quests to the available board, skipping names already in
// play, and returns the ones added.
func (s *State) PostQuests(qs ...*quest.Quest) []*quest.Quest {
	var added []*quest.Quest
	for _, q := range qs {
		if q == nil || s.InPlay(q.Name) {
			continue
		}
		s.available = append(s.available, q)
		added = append(added, q)
	}
	return added
}

// StrandCrewmate moves c from the roster to the stranded list.
func (s *State) StrandCrewmate(c quest.Crewmate) bool {
	for i, p := range s.crew {
		if quest.Crewmate(p) == c {
			p.ClearQuest()
			s.crew = append(s.crew[:i:i], s.crew[i+1:]...)
			s.stranded = append(s.stranded, p)
			s.logger.Info("crewmate stranded", "pirate", p.Name())
			return true
		}
	}
	return false
}

// ReturnCrewmate moves c back from the stranded list to the roster.
func (s *State) ReturnCrewmate(c quest.Crewmate) bool {
	for i, p := range s.stranded {
		if quest.Crewmate(p) == c {
			s.stranded = append(s.stranded[:i:i], s.stranded[i+1:]...)
			s.crew = append(s.crew, p)
			s.logger.Info("crewmate returned", "pirate", p.Name())
			return true
		}
	}
	return false
}

// RecruitPirate adds a pirate to the roster: first from the reserve, then
// from the bank's pirates unlocked at the run's level that nobody knows yet.
func (s *State) RecruitPirate() (string, bool) {
	if len(s.reserve) > 0 {
		i := s.rng.Intn(len(s.reserve))
		p := s.reserve[i]
		s.reserve = append(s.reserve[:i:i], s.reserve[i+1:]...)
		return s.enlist(p), true
	}

	if s.bank == nil {
		return "", false
	}
	var candidates []crew.Template
	for _, t := range s.bank.PiratesUpToLevel(s.level) {
		if !s.knows(t.Name) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	p, err := crew.NewPirate(candidates[s.rng.Intn(len(candidates))], s.rng)
	if err != nil {
		s.logger.Error("failed to recruit pirate", "error", err)
		return "", false
	}
	return s.enlist(p), true
}

func (s *State) enlist(p *crew.Pirate) string {
	p.JoinRun(s.rng, s.factory, s.logger)
	s.crew = append(s.crew, p)
	s.recruits = append(s.recruits, p)
	s.logger.Info("pirate recruited", "pirate", p.Name())
	return p.Name()
}

func (s *State) knows(name string) bool {
	for _, group := range [][]*crew.Pirate{s.crew, s.stranded, s.recruits} {
		for _, p := range group {
			if p.Name() == name {
				return true
			}
		}
	}
	return false
}

func (s *State) unpin(q *quest.Quest) bool {
	for i, p := range s.pinned {
		if p.quest == q {
			s.pinned = append(s.pinned[:i:i], s.pinned[i+1:]...)
			return true
		}
	}
	return false
}

func (s *State) pinnedQuests() []*quest.Quest {
	out := make([]*quest.Quest, len(s.pinned))
	for i, p := range s.pinned {
		out[i] = p.quest
	}
	return out
}

func (s *State) board() Board {
	b := Board{
		RunID:        s.ID.String(),
		Seed:         s.Seed,
		Turn:         s.Turn,
		Gold:         s.Gold,
		Notoriety:    s.Notoriety,
		MaxNotoriety: s.MaxNotoriety,
		Available:    s.Available(),
		Pinned:       s.Pinned(),
		Crew:         s.Pirates(),
	}
	if s.Turn > 1 {
		b.LastTurn = s.TurnLog(s.Turn - 1)
	}
	return b
}
