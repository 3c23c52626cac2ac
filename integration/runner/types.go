package runner

import (
	"time"

	"github.com/guischmitd/piratesim2024/internal/captain"
)

// TestSuite defines a complete scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name            string     `yaml:"name"`
	Seed            int64      `yaml:"seed,omitempty"`
	Gold            *int       `yaml:"gold,omitempty"`
	MaxNotoriety    int        `yaml:"max_notoriety,omitempty"`
	QuestsPerTurn   int        `yaml:"quests_per_turn,omitempty"`
	WorldMap        bool       `yaml:"world_map,omitempty"`
	EncounterChance float64    `yaml:"encounter_chance,omitempty"`
	Crew            []string   `yaml:"crew,omitempty"`   // pirate names from the content bank
	Quests          []int      `yaml:"quests,omitempty"` // template ids posted before the first turn
	Steps           []TestStep `yaml:"steps,omitempty"`
	Cases           []string   `yaml:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep plays some turns with the given captain answers and checks the
// outcome
type TestStep struct {
	Name         string         `yaml:"name,omitempty"`
	Turns        int            `yaml:"turns,omitempty"` // defaults to 1
	Captain      captain.Script `yaml:"captain,omitempty"`
	Expectations Expectations   `yaml:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Turn         *int    `yaml:"turn,omitempty"`
	Gold         *int    `yaml:"gold,omitempty"`
	GoldMin      *int    `yaml:"gold_min,omitempty"`
	Notoriety    *int    `yaml:"notoriety,omitempty"`
	NotorietyMax *int    `yaml:"notoriety_max,omitempty"`
	IsOver       *bool   `yaml:"is_over,omitempty"`
	Reason       *string `yaml:"reason,omitempty"`
	Warnings     *int    `yaml:"warnings,omitempty"`

	// Rosters and boards, order independent
	Crew           []string `yaml:"crew,omitempty"`
	Stranded       []string `yaml:"stranded,omitempty"`
	Available      []string `yaml:"available,omitempty"`
	AvailableCount *int     `yaml:"available_count,omitempty"`
	PinnedCount    *int     `yaml:"pinned_count,omitempty"`

	// Turn log analysis over the step's turns
	LogContains    []string `yaml:"log_contains,omitempty"`
	LogNotContains []string `yaml:"log_not_contains,omitempty"`
	LogRegex       string   `yaml:"log_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Log      []string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	RunID    string
}
