package captain

import (
	"context"
	"errors"
	"fmt"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

// ErrScriptExhausted is returned when a scripted captain runs out of
// answers for a question that cannot be skipped.
var ErrScriptExhausted = errors.New("script has no more answers")

// Script lists a captain's answers in the order they are asked. Quest
// answers are 1-based with 0 meaning next turn, like a human would type.
type Script struct {
	Quests   []int `yaml:"quests"`
	Bounties []int `yaml:"bounties"`
	Options  []int `yaml:"options"`
}

// Scripted answers from a Script. Once the quest answers run out it stops
// pinning.
type Scripted struct {
	script   Script
	warnings []string
}

var _ run.Captain = (*Scripted)(nil)

func NewScripted(s Script) *Scripted {
	return &Scripted{script: s}
}

// Warnings returns every rejection the run reported.
func (s *Scripted) Warnings() []string { return append([]string(nil), s.warnings...) }

func (s *Scripted) ChooseQuest(context.Context, run.Board) (int, error) {
	if len(s.script.Quests) == 0 {
		return run.SkipPinning, nil
	}
	n := s.script.Quests[0]
	s.script.Quests = s.script.Quests[1:]
	if n == 0 {
		return run.SkipPinning, nil
	}
	return n - 1, nil
}

func (s *Scripted) ChooseBounty(_ context.Context, _ run.Board, q *quest.Quest) (int, error) {
	if len(s.script.Bounties) == 0 {
		return 0, fmt.Errorf("bounty for %q: %w", q.Name, ErrScriptExhausted)
	}
	b := s.script.Bounties[0]
	s.script.Bounties = s.script.Bounties[1:]
	return b, nil
}

func (s *Scripted) ChooseEncounterOption(_ context.Context, p *crew.Pirate, e *encounter.Encounter) (int, error) {
	if len(s.script.Options) == 0 {
		return 0, fmt.Errorf("%s's encounter %q: %w", p.Name(), e.Title, ErrScriptExhausted)
	}
	o := s.script.Options[0]
	s.script.Options = s.script.Options[1:]
	return o - 1, nil
}

func (s *Scripted) Warn(_ context.Context, msg string) { s.warnings = append(s.warnings, msg) }
