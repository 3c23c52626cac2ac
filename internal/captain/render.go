package captain

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

// DefaultWidth is the wrap width of rendered text.
const DefaultWidth = 100

// logTail is how many captain's log lines are shown per pirate.
const logTail = 3

// RenderBoard draws the board the way the captain sees it before pinning.
func RenderBoard(b run.Board, width int) string {
	var sb strings.Builder

	sb.WriteString("\n-- 🗒️🖋️ PIRATE's LOG --\n")
	for _, p := range b.Crew {
		sb.WriteString(p.Name() + "\n")
		log := p.CaptainsLog()
		for _, line := range log[max(0, len(log)-logTail):] {
			sb.WriteString(wrap(line, width, 1))
		}
	}

	if len(b.LastTurn) > 0 {
		fmt.Fprintf(&sb, "\n-- ❕ TURN %d EVENTS --\n", b.Turn-1)
		for _, line := range b.LastTurn {
			sb.WriteString(wrap(line, width, 0))
		}
	}

	sb.WriteString("\n-- 🏠 Pirates at the Tavern --\n")
	for _, p := range b.AtTavern() {
		sb.WriteString(p.String() + "\n")
	}
	sb.WriteString("\n-- 🧭 Pirates at Sea --\n")
	for _, p := range b.AtSea() {
		sb.WriteString(p.String() + "\n")
	}

	sb.WriteString("\n-- 📌 Pinned quests --\n")
	if len(b.Pinned) == 0 {
		sb.WriteString("> EMPTY BOARD\n")
	}
	for _, pq := range b.Pinned {
		fmt.Fprintf(&sb, "> %s | Expires in %d turn(s)\n", pq.Quest, pq.ExpiresIn)
	}

	sb.WriteString("\n-- Available quests --\n")
	sb.WriteString("0) Next turn\n")
	for i, q := range b.Available {
		fmt.Fprintf(&sb, "%d) %s\n", i+1, q)
	}

	fmt.Fprintf(&sb, "\n-- 🔄 TURN %d | 💰 GOLD %d  | 🌱 SEED %d --\n", b.Turn, b.Gold, b.Seed)
	fmt.Fprintf(&sb, "-- ⚠️  NOTORIETY [%s] --\n", NotorietyBar(b.Notoriety, b.MaxNotoriety))
	return sb.String()
}

// NotorietyBar renders notoriety as filled and empty slots.
func NotorietyBar(notoriety, maxNotoriety int) string {
	filled := min(max(notoriety, 0), maxNotoriety)
	return strings.Repeat("/", filled) + strings.Repeat("_", max(maxNotoriety-filled, 0))
}

// RenderEncounter draws an encounter with numbered options.
func RenderEncounter(p *crew.Pirate, e *encounter.Encounter, width int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n-- ⁉️  %s --\n", e.Title)
	sb.WriteString(wrap(e.Describe(p.Name()), width, 0))
	for i, text := range e.OptionTexts() {
		fmt.Fprintf(&sb, "%d) %s\n", i+1, text)
	}
	return sb.String()
}

// RenderSummary draws the end of a run.
func RenderSummary(s run.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n-- ☠️  GAME OVER after %d turns --\n%s\n", s.Turns, s.Reason)
	fmt.Fprintf(&sb, "💰 Gold: %d | ⚠️  Notoriety: %d | 🌱 Seed: %d\n", s.Gold, s.Notoriety, s.Seed)
	for _, p := range s.Crew {
		fmt.Fprintf(&sb, "> %s (%d gold)\n", p.Name(), p.Gold())
	}
	for _, p := range s.Stranded {
		fmt.Fprintf(&sb, "> %s is still stranded\n", p.Name())
	}
	return sb.String()
}

func wrap(line string, width, tabs int) string {
	trimmed := strings.TrimLeft(line, "\t")
	tabs += len(line) - len(trimmed)
	line = trimmed
	if width > 0 {
		line = wordwrap.String(line, width-4*tabs)
	}
	if tabs > 0 {
		line = indent.String(line, uint(4*tabs))
	}
	return line + "\n"
}
