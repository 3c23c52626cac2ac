// Package narration holds the places a run's turn logs end up.
package narration

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/guischmitd/piratesim2024/pkg/run"
)

// Memory keeps turn logs in process. It is safe for concurrent use, so one
// Memory can collect every run of a batch.
type Memory struct {
	mu   sync.Mutex
	runs map[string][]Entry
}

var _ run.Sink = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{runs: make(map[string][]Entry)}
}

func (m *Memory) Publish(_ context.Context, runID string, turn int, lines []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[runID] = append(m.runs[runID], Entry{Turn: turn, Lines: append([]string(nil), lines...)})
	return nil
}

// Replay returns the run's turns in publish order.
func (m *Memory) Replay(runID string) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.runs[runID]...)
}

// Runs returns how many runs published at least one turn.
func (m *Memory) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

// Log writes every line to a structured logger at Info.
type Log struct {
	logger *slog.Logger
}

var _ run.Sink = (*Log)(nil)

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Publish(ctx context.Context, runID string, turn int, lines []string) error {
	for _, line := range lines {
		l.logger.InfoContext(ctx, line, "run_id", runID, "turn", turn)
	}
	return nil
}

// Tee publishes to every sink and joins their errors.
type Tee []run.Sink

var _ run.Sink = Tee(nil)

func (t Tee) Publish(ctx context.Context, runID string, turn int, lines []string) error {
	var errs []error
	for _, s := range t {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, runID, turn, lines); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
