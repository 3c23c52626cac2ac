package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guischmitd/piratesim2024/internal/captain"
	"github.com/guischmitd/piratesim2024/pkg/content"
)

func quietRunner() *Runner {
	r := NewRunner(content.Default())
	r.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	return r
}

func intPtr(v int) *int { return &v }

func TestRunSuite_ReportsFailedExpectations(t *testing.T) {
	suite := TestSuite{
		Name: "broke",
		Gold: intPtr(-1),
		Crew: []string{"Mary Read"},
		Steps: []TestStep{
			{Name: "wrong gold", Expectations: Expectations{Gold: intPtr(100), LogContains: []string{"kraken"}}},
			{Name: "right turn", Expectations: Expectations{Turn: intPtr(1)}},
		},
	}

	result, err := quietRunner().RunSuite(context.Background(), suite)
	if err == nil {
		t.Fatal("expected the suite to fail")
	}
	if len(result.Results) != 2 {
		t.Fatalf("continue mode should run every step, got %d results", len(result.Results))
	}
	msg := result.Results[0].Error.Error()
	if !strings.Contains(msg, "gold: expected 100") || !strings.Contains(msg, `"kraken"`) {
		t.Errorf("unexpected error: %s", msg)
	}
	if !result.Results[1].Success {
		t.Errorf("second step should pass once the run is over: %v", result.Results[1].Error)
	}
	if result.RunID == "" {
		t.Error("run id should be reported")
	}
}

func TestRunSuite_ExitMode(t *testing.T) {
	r := quietRunner()
	r.ErrorHandlingMode = ErrorHandlingExit
	suite := TestSuite{
		Crew: []string{"Mary Read"},
		Steps: []TestStep{
			{Name: "fails", Expectations: Expectations{Turn: intPtr(9)}},
			{Name: "never runs"},
		},
	}
	result, err := r.RunSuite(context.Background(), suite)
	if err == nil || len(result.Results) != 1 {
		t.Fatalf("expected a single failed step, got %d results (err %v)", len(result.Results), err)
	}
}

func TestRunSuite_UnknownContent(t *testing.T) {
	for _, suite := range []TestSuite{
		{Crew: []string{"Davy Jones"}},
		{Crew: []string{"Mary Read"}, Quests: []int{999}},
	} {
		if _, err := quietRunner().RunSuite(context.Background(), suite); err == nil {
			t.Errorf("expected %+v to fail seeding", suite)
		}
	}
}

func TestRunSuite_ScriptedWarnings(t *testing.T) {
	suite := TestSuite{
		Seed:   4,
		Crew:   []string{"Old Ned"},
		Quests: []int{10},
		Steps: []TestStep{{
			Captain:      captain.Script{Quests: []int{5, 1}, Bounties: []int{0}},
			Expectations: Expectations{Warnings: intPtr(1), AvailableCount: intPtr(0)},
		}},
	}
	if _, err := quietRunner().RunSuite(context.Background(), suite); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.yaml", "name: A\ncrew: [Mary Read]\nsteps:\n  - name: one\n    expect:\n      turn: 1\n")
	write("b.yaml", "name: B\nsteps:\n  - name: two\n    turns: 3\n")
	write("inner.yaml", "name: Inner\ncases: [b.yaml]\n")
	write("outer.yaml", "name: Outer\ncases: [a.yaml, inner.yaml]\n")

	jobs, err := LoadTestSuiteWithExpansion(filepath.Join(dir, "outer.yaml"), dir)
	if err != nil {
		t.Fatalf("failed to expand: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Name != "A" || jobs[1].Name != "B" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	if got := *jobs[0].Suite.Steps[0].Expectations.Turn; got != 1 {
		t.Errorf("expected turn expectation 1, got %d", got)
	}
	if jobs[1].Suite.Steps[0].Turns != 3 {
		t.Errorf("expected 3 turns, got %d", jobs[1].Suite.Steps[0].Turns)
	}

	write("broken.yaml", "name: Broken\ncases: [missing.yaml]\n")
	if _, err := LoadTestSuiteWithExpansion(filepath.Join(dir, "broken.yaml"), dir); err == nil {
		t.Error("expected a missing case to fail")
	}
}
