package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

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

	// The game owns stdout.
	log := logger.Setup(cfg)

	bank, err := content.Open(cfg.ContentDir)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load content bank", "dir", cfg.ContentDir)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := cfg.GameOptions(log)
	if cfg.RedisURL != "" {
		client, err := narration.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			logger.WithError(log, err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", "error", err)
			}
		}()
		opts.Run.Sink = narration.NewRedisSink(client, narration.DefaultTTL, log)
	}

	g, err := game.New(bank, opts)
	if err != nil {
		logger.WithError(log, err).Error("Failed to start game")
		os.Exit(1)
	}

	fmt.Printf("🏴‍☠️  Welcome to the tavern, captain. Seed %d.\n", cfg.Seed)
	prompter := captain.NewPrompter(os.Stdin, os.Stdout, captain.DefaultWidth)
	_, err = g.Play(ctx, prompter, prompter)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		fmt.Println("\nThe crew goes ashore. Fair winds!")
	case err != nil:
		logger.WithError(log, err).Error("Game stopped")
		os.Exit(1)
	}

	fmt.Printf("Runs sailed: %d | Gold in the chest: %d\n", g.Runs(), g.Gold())
}
