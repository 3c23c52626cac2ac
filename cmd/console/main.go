package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/guischmitd/piratesim2024/internal/captain"
	"github.com/guischmitd/piratesim2024/internal/config"
	"github.com/guischmitd/piratesim2024/internal/logger"
	"github.com/guischmitd/piratesim2024/internal/narration"
	"github.com/guischmitd/piratesim2024/pkg/content"
	"github.com/guischmitd/piratesim2024/pkg/game"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// The UI owns the terminal; logs go to a file when asked for.
	log := logger.Discard()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		log = logger.SetupWriter(cfg, f)
	}

	bank, err := content.Open(cfg.ContentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load content bank: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := cfg.GameOptions(log)
	sinks := narration.Tee{narration.NewLog(log)}
	if cfg.RedisURL != "" {
		client, err := narration.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not connect to Redis: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", "error", err)
			}
		}()
		sinks = append(sinks, narration.NewRedisSink(client, narration.DefaultTTL, log))
	}
	opts.Run.Sink = sinks

	g, err := game.New(bank, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
		os.Exit(1)
	}

	answers, answerWriter := io.Pipe()
	ui := NewConsoleUI(answerWriter, cancel, cfg.Seed)
	p := tea.NewProgram(ui,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())

	go play(ctx, g, newBridge(p, answers, captain.DefaultWidth))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(summaryOf(ui))
}

// summaryOf prints the last run once the alt screen is gone.
func summaryOf(ui *ConsoleUI) string {
	if ui.done == nil || len(ui.done.history) == 0 {
		return ""
	}
	last := ui.done.history[len(ui.done.history)-1]
	return captain.RenderSummary(last) + fmt.Sprintf("Runs sailed: %d | Gold in the chest: %d\n", ui.done.runs, ui.done.gold)
}
