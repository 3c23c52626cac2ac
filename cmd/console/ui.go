package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/guischmitd/piratesim2024/internal/captain"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

const (
	Title           = "PIRATESIM"
	PlaceHolderText = "Type your answer here..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	answers      *io.PipeWriter
	cancel       context.CancelFunc
	seed         int64
	transcript   strings.Builder
	board        *run.Board
	hint         string
	status       string
	done         *gameDoneMsg
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int

	// Quit confirmation state
	showQuitModal bool
}

type answerSentMsg struct{ err error }

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(answers *io.PipeWriter, cancel context.CancelFunc, seed int64) *ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return &ConsoleUI{
		answers:      answers,
		cancel:       cancel,
		seed:         seed,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
}

// formatLine colours one printed line by what it reports.
func formatLine(line string, width int) string {
	if width > 0 {
		line = wordwrap.String(line, width)
	}
	switch {
	case strings.HasPrefix(line, "> "):
		return userStyle.Render(line)
	case strings.Contains(line, "⚠️"), strings.Contains(line, "❌"), strings.Contains(line, "☠️"):
		return errorStyle.Render(line)
	case strings.Contains(line, "✅"):
		return successStyle.Render(line)
	case strings.HasPrefix(line, "-- "):
		return titleStyle.Render(line)
	}
	return line
}

func writeMetadata(b *run.Board, seed int64, hint string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SHIP'S LEDGER") + "\n\n")

	if b == nil {
		content.WriteString(fmt.Sprintf("Seed:\n%d\n\n", seed))
		content.WriteString("Waiting for a crew...\n\n")
	} else {
		content.WriteString(fmt.Sprintf("Turn: %d\n", b.Turn))
		content.WriteString(fmt.Sprintf("Gold: %d\n", b.Gold))
		content.WriteString(fmt.Sprintf("Seed: %d\n\n", b.Seed))
		content.WriteString(fmt.Sprintf("Notoriety %d/%d\n", b.Notoriety, b.MaxNotoriety))
		content.WriteString("[" + captain.NotorietyBar(b.Notoriety, b.MaxNotoriety) + "]\n\n")

		content.WriteString("At sea:\n")
		for _, p := range b.AtSea() {
			content.WriteString(fmt.Sprintf("• %s\n", p.Name()))
		}
		content.WriteString("\nIn the tavern:\n")
		for _, p := range b.AtTavern() {
			content.WriteString(fmt.Sprintf("• %s\n", p.Name()))
		}
		content.WriteString(fmt.Sprintf("\nBoard: %d available, %d pinned\n\n", len(b.Available), len(b.Pinned)))
	}

	if hint != "" {
		content.WriteString(loadingStyle.Render("Waiting for "+hint) + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Answer\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /copy: Copy log\n")

	return content.String()
}

// writeChatContent rebuilds the transcript for the current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render(Title) + "\n\n")
	content.WriteString("Hire a crew, pin quests on the tavern board and keep the Navy off your back.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, line := range strings.Split(m.transcript.String(), "\n") {
		content.WriteString(formatLine(line, chatWidth) + "\n")
	}
	if m.status != "" {
		content.WriteString("\n" + loadingStyle.Render(m.status) + "\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) layout() {
	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m *ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m *ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.board, m.seed, m.hint))

	case outputMsg:
		m.transcript.WriteString(string(msg))
		m.writeChatContent()

	case boardMsg:
		b := run.Board(msg)
		m.board = &b
		m.metaViewport.SetContent(writeMetadata(m.board, m.seed, m.hint))

	case askingMsg:
		m.hint = msg.prompt
		m.metaViewport.SetContent(writeMetadata(m.board, m.seed, m.hint))

	case answerSentMsg:
		if msg.err != nil {
			m.status = "Answer lost: " + msg.err.Error()
			m.writeChatContent()
		}

	case gameDoneMsg:
		m.done = &msg
		m.hint = ""
		m.status = fmt.Sprintf("Runs sailed: %d | Gold in the chest: %d. Press Enter to leave.", msg.runs, msg.gold)
		if msg.err != nil && !errors.Is(msg.err, io.EOF) && !errors.Is(msg.err, context.Canceled) {
			m.status = "The game stopped: " + msg.err.Error()
		}
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.board, m.seed, m.hint))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.done != nil {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.done != nil {
				return m, tea.Quit
			}

			input := strings.TrimSpace(m.textarea.Value())
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			if m.hint == "" {
				return m, nil
			}

			m.textarea.Reset()
			m.hint = ""
			m.status = ""
			m.transcript.WriteString("> " + input + "\n")
			m.writeChatContent()
			m.metaViewport.SetContent(writeMetadata(m.board, m.seed, m.hint))
			return m, m.sendAnswer(input)
		}
	}

	// Update components for non-mouse events
	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		m.status = "Answer with the number next to a choice. 0 moves on to the next turn. /copy puts the log on the clipboard."
	case "/copy":
		if err := clipboard.WriteAll(m.transcript.String()); err != nil {
			m.status = "Could not copy the log: " + err.Error()
		} else {
			m.status = "Captain's log copied to the clipboard."
		}
	default:
		m.status = "Unknown command " + cmd
	}

	m.textarea.Reset()
	m.writeChatContent()
	return m, nil
}

// sendAnswer feeds a line to the prompter. The pipe blocks until the game
// reads it, so the write happens off the UI loop.
func (m *ConsoleUI) sendAnswer(line string) tea.Cmd {
	return func() tea.Msg {
		_, err := io.WriteString(m.answers, line+"\n")
		return answerSentMsg{err}
	}
}

func (m *ConsoleUI) quit() tea.Cmd {
	m.cancel()
	_ = m.answers.CloseWithError(io.EOF)
	return tea.Quit
}

func (m *ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, m.quit()
		default:
			switch msg.String() {
			case "y", "Y":
				return m, m.quit()
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m *ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Abandon Ship?"))
	content.WriteString("\n\n")
	content.WriteString("The current run will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m *ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"", // Add empty line for spacing
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
