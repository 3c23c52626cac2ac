// Package encounter implements the random events that can strike a pirate
// mid-voyage. The captain picks a course of action, the outcome is rolled
// from the option's odds and the pirate's morale moves accordingly.
package encounter

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/guischmitd/piratesim2024/pkg/roulette"
)

// ErrInvalidOption is returned when a chosen option index is out of range.
var ErrInvalidOption = errors.New("invalid encounter option")

// MoraleSwing is how far an encounter moves morale either way.
const MoraleSwing = 5

// Option is one course of action the captain can take.
type Option struct {
	Text        string  `yaml:"text" json:"text"`
	SuccessOdds float64 `yaml:"success_odds" json:"success_odds"` // weight of success against a failure weight of 1
	SuccessText string  `yaml:"success_text" json:"success_text"`
	FailureText string  `yaml:"failure_text" json:"failure_text"`
}

// Template is the content-bank description of an encounter. Description and
// outcome texts may reference the pirate as {name}.
type Template struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Options     []Option `yaml:"options" json:"options"`
}

// Validate checks that the encounter can be played.
func (t Template) Validate() error {
	var errs []error
	if t.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if len(t.Options) == 0 {
		errs = append(errs, errors.New("at least one option is required"))
	}
	for i, o := range t.Options {
		if o.Text == "" {
			errs = append(errs, fmt.Errorf("option %d has no text", i+1))
		}
		if o.SuccessOdds < 0 {
			errs = append(errs, fmt.Errorf("option %d has negative odds %v", i+1, o.SuccessOdds))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("encounter %q: %w", t.Title, err)
	}
	return nil
}

// Subject is the pirate an encounter happens to.
type Subject interface {
	Name() string
	AdjustMorale(delta int) (int, error)
}

// Effect is applied to the subject once an option's outcome is known.
type Effect interface {
	Apply(s Subject) ([]string, error)
}

// MoraleEffect moves the subject's morale by Delta.
type MoraleEffect struct {
	Delta int
}

func (e MoraleEffect) Apply(s Subject) ([]string, error) {
	if _, err := s.AdjustMorale(e.Delta); err != nil {
		return nil, err
	}
	switch {
	case e.Delta > 0:
		return []string{fmt.Sprintf("The crew's morale increased by %d!", e.Delta)}, nil
	case e.Delta < 0:
		return []string{fmt.Sprintf("The crew's morale decreased by %d!", -e.Delta)}, nil
	}
	return nil, nil
}

// Encounter is a playable instance of a template.
type Encounter struct {
	Template
	success [][]Effect
	failure [][]Effect
}

// New builds an encounter whose every option raises morale on success and
// lowers it on failure.
func New(t Template) *Encounter {
	e := &Encounter{Template: t}
	for range t.Options {
		e.success = append(e.success, []Effect{MoraleEffect{Delta: MoraleSwing}})
		e.failure = append(e.failure, []Effect{MoraleEffect{Delta: -MoraleSwing}})
	}
	return e
}

// Describe returns the description addressed to the named pirate.
func (e *Encounter) Describe(name string) string {
	return personalize(e.Description, name)
}

// OptionTexts lists the options in display order.
func (e *Encounter) OptionTexts() []string {
	out := make([]string, len(e.Options))
	for i, o := range e.Options {
		out[i] = o.Text
	}
	return out
}

// Resolve plays option choice (0-based) for s and returns the narration,
// indented for the turn log.
func (e *Encounter) Resolve(rng *rand.Rand, s Subject, choice int) ([]string, bool, error) {
	if choice < 0 || choice >= len(e.Options) {
		return nil, false, fmt.Errorf("%w: %d, expected 1 to %d", ErrInvalidOption, choice+1, len(e.Options))
	}
	opt := e.Options[choice]

	sel := roulette.New[bool](rng)
	_ = sel.Add(true, opt.SuccessOdds)
	_ = sel.Add(false, 1)
	success, _ := sel.Draw()

	lines := []string{"\t" + e.Describe(s.Name())}
	effects := e.failure[choice]
	text := opt.FailureText
	if success {
		effects = e.success[choice]
		text = opt.SuccessText
	}
	lines = append(lines, "\t"+personalize(text, s.Name()))

	for _, eff := range effects {
		out, err := eff.Apply(s)
		if err != nil {
			return lines, success, err
		}
		for _, l := range out {
			lines = append(lines, "\t\t"+l)
		}
	}
	return lines, success, nil
}

func personalize(text, name string) string {
	return strings.ReplaceAll(text, "{name}", name)
}
