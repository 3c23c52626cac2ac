package narration

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client, err := NewClient(context.Background(), "redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create narration client: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisSink_PublishAndReplay(t *testing.T) {
	client, mr := setupTestRedis(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sink := NewRedisSink(client, DefaultTTL, logger)

	ctx := context.Background()
	runID := uuid.New().String()

	turns := [][]string{
		{"💤 Mary Read decided to Play cards for 2 turns"},
		{"🚢 Jack Rackham embarked on a voyage! Raid the fort [combat]", "🕓 Mary Read is working on Play cards [1 turn(s) remaining]"},
		{},
	}
	for i, lines := range turns {
		if err := sink.Publish(ctx, runID, i+1, lines); err != nil {
			t.Fatalf("Failed to publish turn %d: %v", i+1, err)
		}
	}

	depth, err := sink.Depth(ctx, runID)
	if err != nil {
		t.Fatalf("Failed to get depth: %v", err)
	}
	if depth != len(turns) {
		t.Errorf("Expected depth %d, got %d", len(turns), depth)
	}

	if ttl := mr.TTL("turn-log:" + runID); ttl != DefaultTTL {
		t.Errorf("Expected TTL %v, got %v", DefaultTTL, ttl)
	}

	entries, err := sink.Replay(ctx, runID)
	if err != nil {
		t.Fatalf("Failed to replay: %v", err)
	}
	if len(entries) != len(turns) {
		t.Fatalf("Expected %d entries, got %d", len(turns), len(entries))
	}
	for i, e := range entries {
		if e.Turn != i+1 {
			t.Errorf("Entry %d: expected turn %d, got %d", i, i+1, e.Turn)
		}
		if len(e.Lines) != len(turns[i]) {
			t.Errorf("Entry %d: expected %d lines, got %d", i, len(turns[i]), len(e.Lines))
			continue
		}
		for j := range e.Lines {
			if e.Lines[j] != turns[i][j] {
				t.Errorf("Entry %d line %d: expected %q, got %q", i, j, turns[i][j], e.Lines[j])
			}
		}
	}
}

func TestRedisSink_RunsAreIsolated(t *testing.T) {
	client, _ := setupTestRedis(t)
	sink := NewRedisSink(client, 0, slog.Default())
	ctx := context.Background()

	a, b := uuid.New().String(), uuid.New().String()
	if err := sink.Publish(ctx, a, 1, []string{"turn one of a"}); err != nil {
		t.Fatal(err)
	}

	entries, err := sink.Replay(ctx, b)
	if err != nil {
		t.Fatalf("Replay of an empty run failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries for run b, got %d", len(entries))
	}

	if err := sink.Clear(ctx, a); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	depth, err := sink.Depth(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 0 {
		t.Errorf("Expected empty log after clear, got depth %d", depth)
	}
}

func TestRedisSink_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	sink := NewRedisSink(client, 0, slog.Default())

	runID := uuid.New().String()
	if _, err := mr.RPush("turn-log:"+runID, "not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := sink.Replay(context.Background(), runID); err == nil {
		t.Error("Expected an error for a corrupt entry")
	}
}

func TestNewClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewClient(ctx, "redis://127.0.0.1:1", slog.Default()); err == nil {
		t.Error("Expected an error for an unreachable server")
	}
	if _, err := NewClient(ctx, "::not a url::", slog.Default()); err == nil {
		t.Error("Expected an error for a bad URL")
	}
}

type failingSink struct{ err error }

func (f failingSink) Publish(context.Context, string, int, []string) error { return f.err }

func TestTee(t *testing.T) {
	mem := NewMemory()
	boom := errors.New("boom")
	tee := Tee{mem, nil, failingSink{err: boom}, NewLog(slog.Default())}

	err := tee.Publish(context.Background(), "run-1", 1, []string{"a", "b"})
	if !errors.Is(err, boom) {
		t.Errorf("Expected the failing sink's error, got %v", err)
	}

	entries := mem.Replay("run-1")
	if len(entries) != 1 || len(entries[0].Lines) != 2 {
		t.Errorf("Memory sink did not get the turn: %+v", entries)
	}
	if mem.Runs() != 1 {
		t.Errorf("Expected 1 run, got %d", mem.Runs())
	}
}
