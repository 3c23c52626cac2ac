package narration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guischmitd/piratesim2024/pkg/run"
)

// DefaultTTL is how long a run's turn log is kept after its last turn.
const DefaultTTL = 24 * time.Hour

// Entry is one published turn.
type Entry struct {
	Turn  int      `json:"turn"`
	Lines []string `json:"lines"`
}

// RedisSink appends every turn to the list turn-log:<run id>.
type RedisSink struct {
	client *Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ run.Sink = (*RedisSink)(nil)

// NewRedisSink creates a sink whose lists expire ttl after the last write;
// ttl 0 keeps them forever.
func NewRedisSink(client *Client, ttl time.Duration, logger *slog.Logger) *RedisSink {
	return &RedisSink{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func (s *RedisSink) key(runID string) string {
	return fmt.Sprintf("turn-log:%s", runID)
}

// Publish appends the turn to the run's list.
func (s *RedisSink) Publish(ctx context.Context, runID string, turn int, lines []string) error {
	key := s.key(runID)
	payload, err := json.Marshal(Entry{Turn: turn, Lines: lines})
	if err != nil {
		return fmt.Errorf("failed to encode turn %d: %w", turn, err)
	}

	pipe := s.client.rdb.TxPipeline()
	pipe.RPush(ctx, key, payload)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Failed to publish turn log",
			"error", err,
			"run_id", runID,
			"turn", turn)
		return fmt.Errorf("failed to publish turn %d: %w", turn, err)
	}

	s.logger.Debug("Published turn log", "run_id", runID, "turn", turn, "lines", len(lines))
	return nil
}

// Depth returns how many turns are stored for the run.
func (s *RedisSink) Depth(ctx context.Context, runID string) (int, error) {
	n, err := s.client.rdb.LLen(ctx, s.key(runID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get turn log depth: %w", err)
	}
	return int(n), nil
}

// Replay returns every stored turn of the run in order.
func (s *RedisSink) Replay(ctx context.Context, runID string) ([]Entry, error) {
	raw, err := s.client.rdb.LRange(ctx, s.key(runID), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to replay run %s: %w", runID, err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("turn log entry %d of run %s: %w", i, runID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear deletes the run's turn log.
func (s *RedisSink) Clear(ctx context.Context, runID string) error {
	if err := s.client.rdb.Del(ctx, s.key(runID)).Err(); err != nil {
		return fmt.Errorf("failed to clear turn log: %w", err)
	}
	return nil
}
