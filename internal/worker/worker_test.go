package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guischmitd/piratesim2024/internal/narration"
	"github.com/guischmitd/piratesim2024/pkg/content"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(sink run.Sink) Config {
	opts := run.DefaultOptions()
	opts.Seed = 100
	opts.EncounterChance = 0.2
	return Config{Run: opts, CrewSize: 3, MaxTurns: 60, Workers: 3, Sink: sink}
}

func TestPool_Run(t *testing.T) {
	mem := narration.NewMemory()
	pool := New(content.Default(), testConfig(mem), quietLogger())

	results, err := pool.Run(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, results, 8)

	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, int64(100+i), r.Seed)
		assert.Equal(t, int64(100+i), r.Summary.Seed)
		assert.LessOrEqual(t, r.Summary.Turns, 60)
		assert.NotEmpty(t, r.Summary.Reason)
	}
	assert.Equal(t, 8, mem.Runs(), "every run publishes its turns")

	rep := Summarize(results)
	assert.Equal(t, 8, rep.Runs)
	assert.Zero(t, rep.Failed)
	assert.Positive(t, rep.AvgTurns)
	total := 0
	for _, reason := range rep.SortedReasons() {
		total += rep.Reasons[reason]
	}
	assert.Equal(t, 8, total)
}

func TestPool_Deterministic(t *testing.T) {
	a, err := New(content.Default(), testConfig(nil), quietLogger()).Run(context.Background(), 4)
	require.NoError(t, err)
	b, err := New(content.Default(), testConfig(nil), quietLogger()).Run(context.Background(), 4)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Summary.Turns, b[i].Summary.Turns, "run %d", i)
		assert.Equal(t, a[i].Summary.Gold, b[i].Summary.Gold, "run %d", i)
		assert.Equal(t, a[i].Summary.Reason, b[i].Summary.Reason, "run %d", i)
	}
}

func TestPool_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(content.Default(), testConfig(nil), quietLogger()).Run(ctx, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	rep := Summarize([]Result{
		{Seed: 1, Summary: run.Summary{Turns: 10, Gold: 100, Reason: run.ReasonBroke}},
		{Seed: 2, Summary: run.Summary{Turns: 20, Gold: 300, Reason: ReasonTurnLimit}},
		{Seed: 3, Summary: run.Summary{Turns: 30, Gold: -20, Reason: run.ReasonBroke}},
		{Seed: 4, Err: assert.AnError},
	})
	assert.Equal(t, 4, rep.Runs)
	assert.Equal(t, 1, rep.Failed)
	assert.InDelta(t, 20, rep.AvgTurns, 1e-9)
	assert.InDelta(t, 380.0/3, rep.AvgGold, 1e-9)
	assert.Equal(t, 300, rep.MaxGold)
	assert.Equal(t, int64(2), rep.BestSeed)
	assert.Equal(t, []string{run.ReasonBroke, ReasonTurnLimit}, rep.SortedReasons())
}
