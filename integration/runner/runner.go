package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/guischmitd/piratesim2024/internal/captain"
	"github.com/guischmitd/piratesim2024/pkg/content"
	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scenario suites in process against a content bank
type Runner struct {
	Bank              *content.Bank
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	Log               *slog.Logger
}

// NewRunner creates a new test runner
func NewRunner(bank *content.Bank) *Runner {
	return &Runner{
		Bank:              bank,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
		Log:               slog.Default(),
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// relay hands each question to the current step's scripted captain
type relay struct {
	current  *captain.Scripted
	warnings int
}

func (c *relay) ChooseQuest(ctx context.Context, b run.Board) (int, error) {
	return c.current.ChooseQuest(ctx, b)
}

func (c *relay) ChooseBounty(ctx context.Context, b run.Board, q *quest.Quest) (int, error) {
	return c.current.ChooseBounty(ctx, b, q)
}

func (c *relay) ChooseEncounterOption(ctx context.Context, p *crew.Pirate, e *encounter.Encounter) (int, error) {
	return c.current.ChooseEncounterOption(ctx, p, e)
}

func (c *relay) Warn(ctx context.Context, msg string) {
	c.warnings++
	c.current.Warn(ctx, msg)
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	c := &relay{current: captain.NewScripted(captain.Script{})}
	game, err := r.seedRun(suite, c)
	if err != nil {
		result.Error = fmt.Errorf("failed to seed run: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.RunID = game.State().ID.String()

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, game, c, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// seedRun builds the run a suite describes
func (r *Runner) seedRun(suite TestSuite, c run.Captain) (*run.Run, error) {
	rng := rand.New(rand.NewSource(suite.Seed))
	var pirates []*crew.Pirate
	for _, name := range suite.Crew {
		t, ok := r.Bank.Pirate(name)
		if !ok {
			return nil, fmt.Errorf("unknown pirate %q", name)
		}
		p, err := crew.NewPirate(t, rng)
		if err != nil {
			return nil, err
		}
		pirates = append(pirates, p)
	}

	opts := run.Options{
		Seed:            suite.Seed,
		Gold:            run.DefaultGold,
		MaxNotoriety:    suite.MaxNotoriety,
		QuestsPerTurn:   suite.QuestsPerTurn,
		WorldMap:        suite.WorldMap,
		EncounterChance: suite.EncounterChance,
		Logger:          r.Log,
	}
	if suite.Gold != nil {
		opts.Gold = *suite.Gold
	}
	if suite.WorldMap {
		opts.QuestsToSpawn = run.DefaultOptions().QuestsToSpawn
	}

	game, err := run.New(r.Bank, pirates, c, opts)
	if err != nil {
		return nil, err
	}

	for _, id := range suite.Quests {
		t, ok := r.Bank.QuestTemplate(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", quest.ErrUnknownTemplate, id)
		}
		q, err := game.State().Factory().FromTemplate(t, nil)
		if err != nil {
			return nil, err
		}
		game.State().PostQuests(q)
	}
	return game, nil
}

// runStep plays the step's turns and checks expectations
func (r *Runner) runStep(ctx context.Context, game *run.Run, c *relay, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	c.current = captain.NewScripted(step.Captain)
	c.warnings = 0

	turns := max(step.Turns, 1)
	for range turns {
		if over, _ := game.Over(); over {
			break
		}
		if err := game.NextTurn(ctx); err != nil {
			result.Error = fmt.Errorf("turn %d: %w", game.State().Turn, err)
			result.Duration = time.Since(start)
			return result
		}
		result.Log = append(result.Log, game.State().TurnLog(game.State().Turn)...)
	}

	if err := checkExpectations(step.Expectations, game, c.warnings, result.Log); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func checkExpectations(exp Expectations, game *run.Run, warnings int, log []string) error {
	s := game.State()
	over, reason := game.Over()
	var errs []error

	checkInt := func(name string, want *int, got int) {
		if want != nil && *want != got {
			errs = append(errs, fmt.Errorf("%s: expected %d, got %d", name, *want, got))
		}
	}
	checkInt("turn", exp.Turn, s.Turn)
	checkInt("gold", exp.Gold, s.Gold)
	checkInt("notoriety", exp.Notoriety, s.Notoriety)
	checkInt("warnings", exp.Warnings, warnings)
	checkInt("available count", exp.AvailableCount, len(s.Available()))
	checkInt("pinned count", exp.PinnedCount, len(s.Pinned()))

	if exp.GoldMin != nil && s.Gold < *exp.GoldMin {
		errs = append(errs, fmt.Errorf("gold: expected at least %d, got %d", *exp.GoldMin, s.Gold))
	}
	if exp.NotorietyMax != nil && s.Notoriety > *exp.NotorietyMax {
		errs = append(errs, fmt.Errorf("notoriety: expected at most %d, got %d", *exp.NotorietyMax, s.Notoriety))
	}
	if exp.IsOver != nil && *exp.IsOver != over {
		errs = append(errs, fmt.Errorf("is_over: expected %v, got %v", *exp.IsOver, over))
	}
	if exp.Reason != nil && *exp.Reason != reason {
		errs = append(errs, fmt.Errorf("reason: expected %q, got %q", *exp.Reason, reason))
	}

	checkNames := func(name string, want []string, got []string) {
		if want == nil {
			return
		}
		w, g := slices.Clone(want), slices.Clone(got)
		slices.Sort(w)
		slices.Sort(g)
		if !slices.Equal(w, g) {
			errs = append(errs, fmt.Errorf("%s: expected %v, got %v", name, want, got))
		}
	}
	checkNames("crew", exp.Crew, pirateNames(s.Pirates()))
	checkNames("stranded", exp.Stranded, pirateNames(s.Stranded()))
	checkNames("available", exp.Available, questNames(s.Available()))

	joined := strings.Join(log, "\n")
	for _, want := range exp.LogContains {
		if !strings.Contains(joined, want) {
			errs = append(errs, fmt.Errorf("turn log does not contain %q", want))
		}
	}
	for _, unwanted := range exp.LogNotContains {
		if strings.Contains(joined, unwanted) {
			errs = append(errs, fmt.Errorf("turn log contains %q", unwanted))
		}
	}
	if exp.LogRegex != "" {
		matched, err := regexp.MatchString(exp.LogRegex, joined)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid regex pattern %q: %w", exp.LogRegex, err))
		} else if !matched {
			errs = append(errs, fmt.Errorf("turn log didn't match regex pattern: %s", exp.LogRegex))
		}
	}

	return errors.Join(errs...)
}

func pirateNames(ps []*crew.Pirate) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name()
	}
	return out
}

func questNames(qs []*quest.Quest) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Name
	}
	return out
}
