// Package captain holds the decision makers a run and a game can be driven
// by: a line-oriented prompter for humans, an autopilot for simulations and
// a scripted captain for scenario suites.
package captain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/game"
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

// Prompter asks a human on a line-oriented terminal.
type Prompter struct {
	in    *bufio.Scanner
	out   io.Writer
	width int
}

var (
	_ run.Captain        = (*Prompter)(nil)
	_ game.Quartermaster = (*Prompter)(nil)
)

func NewPrompter(in io.Reader, out io.Writer, width int) *Prompter {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Prompter{in: bufio.NewScanner(in), out: out, width: width}
}

func (p *Prompter) ChooseQuest(ctx context.Context, b run.Board) (int, error) {
	fmt.Fprint(p.out, RenderBoard(b, p.width))
	n, err := p.askInt(ctx, "🗺️   Select a quest: ")
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return run.SkipPinning, nil
	}
	return n - 1, nil
}

func (p *Prompter) ChooseBounty(ctx context.Context, _ run.Board, q *quest.Quest) (int, error) {
	return p.askInt(ctx, fmt.Sprintf("💰   What will be the pirate's cut of %d? ", q.Reward))
}

func (p *Prompter) ChooseEncounterOption(ctx context.Context, pirate *crew.Pirate, e *encounter.Encounter) (int, error) {
	fmt.Fprint(p.out, RenderEncounter(pirate, e, p.width))
	n, err := p.askInt(ctx, "❔   What should "+pirate.Name()+" do? ")
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func (p *Prompter) Warn(_ context.Context, msg string) {
	fmt.Fprintf(p.out, "⚠️   %s\n", msg)
}

func (p *Prompter) ChooseCrew(ctx context.Context, unlocked []*crew.Pirate, size int) ([]int, error) {
	fmt.Fprintf(p.out, "\n-- 🏴‍☠️ Pick up to %d pirates --\n", size)
	for i, pirate := range unlocked {
		fmt.Fprintf(p.out, "%d) %s\n", i+1, pirate)
	}
	line, err := p.ask(ctx, "Crew (numbers separated by spaces): ")
	if err != nil {
		return nil, err
	}
	var picks []int
	for _, f := range strings.Fields(strings.ReplaceAll(line, ",", " ")) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", run.ErrInvalidChoice, f)
		}
		picks = append(picks, n-1)
	}
	return picks, nil
}

func (p *Prompter) EquipArtifact(ctx context.Context, hired []*crew.Pirate, a *crew.Artifact) (int, error) {
	fmt.Fprintf(p.out, "\n-- 🧿 %s --\n%s\n", a.Name, wrap(a.Summary(), p.width, 0))
	fmt.Fprintln(p.out, "0) Keep it in the chest")
	for i, pirate := range hired {
		fmt.Fprintf(p.out, "%d) %s\n", i+1, pirate.Name())
	}
	n, err := p.askInt(ctx, "Who carries it? ")
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return game.NoArtifact, nil
	}
	return n - 1, nil
}

func (p *Prompter) SailAgain(ctx context.Context, last run.Summary) (bool, error) {
	fmt.Fprint(p.out, RenderSummary(last))
	line, err := p.ask(ctx, "Set sail again? [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) askInt(ctx context.Context, prompt string) (int, error) {
	line, err := p.ask(ctx, prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", run.ErrInvalidChoice, line)
	}
	return n, nil
}
