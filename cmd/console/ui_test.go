package main

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func TestBridge_ChooseQuest(t *testing.T) {
	rec := &recorder{}
	b := newBridge(rec, strings.NewReader("2\n"), 80)
	board := run.Board{Turn: 1, Available: []*quest.Quest{{Name: "Raid"}, {Name: "Smuggle"}}}

	got, err := b.ChooseQuest(context.Background(), board)
	if err != nil {
		t.Fatalf("ChooseQuest failed: %v", err)
	}
	if got != 1 {
		t.Errorf("expected index 1, got %d", got)
	}

	if _, ok := rec.msgs[0].(boardMsg); !ok {
		t.Errorf("expected the board first, got %T", rec.msgs[0])
	}
	if _, ok := rec.msgs[1].(askingMsg); !ok {
		t.Errorf("expected a question second, got %T", rec.msgs[1])
	}
	var printed strings.Builder
	for _, m := range rec.msgs[2:] {
		if out, ok := m.(outputMsg); ok {
			printed.WriteString(string(out))
		}
	}
	if !strings.Contains(printed.String(), "Smuggle") {
		t.Errorf("expected the board to be printed, got %q", printed.String())
	}
}

func TestConsoleUI_AnswerGoesToThePipe(t *testing.T) {
	r, w := io.Pipe()
	ui := NewConsoleUI(w, func() {}, 1)
	ui.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	ui.Update(outputMsg("🗺️   Select a quest: "))
	ui.Update(askingMsg{"quest number"})

	ui.textarea.SetValue("3")
	_, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command writing the answer")
	}
	go cmd()

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		t.Fatalf("reading the answer: %v", err)
	}
	if line != "3\n" {
		t.Errorf("expected %q, got %q", "3\n", line)
	}
	if ui.hint != "" {
		t.Error("the question should be answered")
	}
	if !strings.Contains(ui.transcript.String(), "> 3") {
		t.Errorf("answer should be echoed, got %q", ui.transcript.String())
	}
}

func TestConsoleUI_IgnoresEnterWithoutQuestion(t *testing.T) {
	_, w := io.Pipe()
	ui := NewConsoleUI(w, func() {}, 1)
	ui.textarea.SetValue("3")
	if _, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("nothing should be sent while the game is busy")
	}
}

func TestConsoleUI_GameDone(t *testing.T) {
	_, w := io.Pipe()
	ui := NewConsoleUI(w, func() {}, 1)
	ui.Update(gameDoneMsg{err: io.EOF, runs: 2, gold: 340})
	if !strings.Contains(ui.status, "Gold in the chest: 340") {
		t.Errorf("unexpected status %q", ui.status)
	}
	if _, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Error("enter should quit once the game is over")
	}
}

func TestFormatLine(t *testing.T) {
	if got := formatLine("plain", 0); got != "plain" {
		t.Errorf("plain lines stay as they are, got %q", got)
	}
	wrapped := formatLine("one two three four", 8)
	if !strings.Contains(wrapped, "\n") {
		t.Errorf("expected wrapping, got %q", wrapped)
	}
}
