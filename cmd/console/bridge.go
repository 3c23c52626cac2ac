package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guischmitd/piratesim2024/internal/captain"
	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/game"
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

// sender is the part of tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

type outputMsg string

type boardMsg run.Board

type askingMsg struct{ prompt string }

type gameDoneMsg struct {
	err     error
	runs    int
	gold    int
	history []run.Summary
}

// programWriter forwards everything the prompter prints to the UI.
type programWriter struct{ p sender }

func (w programWriter) Write(b []byte) (int, error) {
	w.p.Send(outputMsg(string(b)))
	return len(b), nil
}

// bridge lets the game goroutine talk to the UI. Questions go through a
// captain.Prompter that prints to the program and reads the lines the UI
// writes into the pipe.
type bridge struct {
	*captain.Prompter
	p sender
}

var (
	_ run.Captain        = (*bridge)(nil)
	_ game.Quartermaster = (*bridge)(nil)
)

func newBridge(p sender, answers io.Reader, width int) *bridge {
	return &bridge{
		Prompter: captain.NewPrompter(answers, programWriter{p}, width),
		p:        p,
	}
}

func (b *bridge) ChooseQuest(ctx context.Context, board run.Board) (int, error) {
	b.p.Send(boardMsg(board))
	b.p.Send(askingMsg{"quest number, 0 for next turn"})
	return b.Prompter.ChooseQuest(ctx, board)
}

func (b *bridge) ChooseBounty(ctx context.Context, board run.Board, q *quest.Quest) (int, error) {
	b.p.Send(askingMsg{"the pirate's cut"})
	return b.Prompter.ChooseBounty(ctx, board, q)
}

func (b *bridge) ChooseEncounterOption(ctx context.Context, p *crew.Pirate, e *encounter.Encounter) (int, error) {
	b.p.Send(askingMsg{"option number"})
	return b.Prompter.ChooseEncounterOption(ctx, p, e)
}

func (b *bridge) ChooseCrew(ctx context.Context, unlocked []*crew.Pirate, size int) ([]int, error) {
	b.p.Send(askingMsg{"pirate numbers"})
	return b.Prompter.ChooseCrew(ctx, unlocked, size)
}

func (b *bridge) EquipArtifact(ctx context.Context, hired []*crew.Pirate, a *crew.Artifact) (int, error) {
	b.p.Send(askingMsg{"pirate number, 0 to keep it"})
	return b.Prompter.EquipArtifact(ctx, hired, a)
}

func (b *bridge) SailAgain(ctx context.Context, last run.Summary) (bool, error) {
	b.p.Send(askingMsg{"y or n"})
	return b.Prompter.SailAgain(ctx, last)
}

// play runs the game to completion and reports back to the UI.
func play(ctx context.Context, g *game.Game, b *bridge) {
	history, err := g.Play(ctx, b, b)
	b.p.Send(gameDoneMsg{err: err, runs: g.Runs(), gold: g.Gold(), history: history})
}
