package captain

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guischmitd/piratesim2024/pkg/crew"
	"github.com/guischmitd/piratesim2024/pkg/encounter"
	"github.com/guischmitd/piratesim2024/pkg/game"
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/run"
)

func pirate(t *testing.T, name string) *crew.Pirate {
	t.Helper()
	p, err := crew.NewPirate(crew.Template{
		Name: name, Trait: "bold", Navigation: 2, Combat: 3, Trickyness: 1, Level: 1,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return p
}

func board(t *testing.T) run.Board {
	mary := pirate(t, "Mary Read")
	mary.Note(`Took some time for myself to go "Play cards"`)
	return run.Board{
		Turn: 2, Gold: 480, Seed: 9, Notoriety: 3, MaxNotoriety: 10,
		Available: []*quest.Quest{
			{Name: "Raid the fort", Type: quest.TypeCombat, Difficulty: 3, Reward: 200},
			{Name: "Smuggle rum", Type: quest.TypeSmuggling, Difficulty: 2, Reward: 80},
		},
		Pinned:   []run.PinnedQuest{{Quest: &quest.Quest{Name: "Fetch water", Type: quest.TypeFetch, Difficulty: 1}, ExpiresIn: 1}},
		Crew:     []*crew.Pirate{mary},
		LastTurn: []string{"✅  Jack succeeded the quest Fetch rope", "\t💰 Jack took a 10 gold cut"},
	}
}

func TestPrompter_ChooseQuest(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		invalid bool
	}{
		{"0\n", run.SkipPinning, false},
		{"2\n", 1, false},
		{" 1 \n", 0, false},
		{"9\n", 8, false}, // range is checked by the run
		{"two\n", 0, true},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out, 80)
			got, err := p.ChooseQuest(context.Background(), board(t))
			if tt.invalid {
				assert.ErrorIs(t, err, run.ErrInvalidChoice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "1) D 3 - R 200\t[combat]\t| Raid the fort")
		})
	}
}

func TestPrompter_EOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), io.Discard, 0)
	_, err := p.ChooseBounty(context.Background(), run.Board{}, &quest.Quest{Reward: 10})
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_Quartermaster(t *testing.T) {
	ctx := context.Background()
	crewList := []*crew.Pirate{pirate(t, "Mary Read"), pirate(t, "Jack Rackham")}
	p := NewPrompter(strings.NewReader("2, 1\n0\n2\ny\nx 1\n"), io.Discard, 0)

	picks, err := p.ChooseCrew(ctx, crewList, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, picks)

	a := &crew.Artifact{Name: "Lucky hook", Combat: 1}
	idx, err := p.EquipArtifact(ctx, crewList, a)
	require.NoError(t, err)
	assert.Equal(t, game.NoArtifact, idx)
	idx, err = p.EquipArtifact(ctx, crewList, a)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	again, err := p.SailAgain(ctx, run.Summary{Reason: run.ReasonBroke})
	require.NoError(t, err)
	assert.True(t, again)

	_, err = p.ChooseCrew(ctx, crewList, 2)
	assert.ErrorIs(t, err, run.ErrInvalidChoice)
}

func TestAutopilot_PinsOneQuestPerPirateAshore(t *testing.T) {
	ctx := context.Background()
	a := NewAutopilot(3, nil)
	b := board(t)
	b.Pinned = nil

	first, err := a.ChooseQuest(ctx, b)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first, 0)

	second, err := a.ChooseQuest(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, run.SkipPinning, second, "a single pirate ashore needs a single quest")

	b.Turn++
	third, err := a.ChooseQuest(ctx, b)
	require.NoError(t, err)
	assert.NotEqual(t, run.SkipPinning, third)
}

func TestAutopilot_Bounty(t *testing.T) {
	a := NewAutopilot(1, nil)
	for range 50 {
		got, err := a.ChooseBounty(context.Background(), run.Board{}, &quest.Quest{Reward: 200})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 50)
		assert.LessOrEqual(t, got, 100)
	}
	got, err := a.ChooseBounty(context.Background(), run.Board{}, &quest.Quest{Reward: -40})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestAutopilot_Quartermaster(t *testing.T) {
	ctx := context.Background()
	weak := pirate(t, "Weak")
	strong, err := crew.NewPirate(crew.Template{Name: "Strong", Trait: "brutal", Navigation: 5, Combat: 5, Trickyness: 5, Level: 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	a := NewAutopilot(1, nil)
	picks, err := a.ChooseCrew(ctx, []*crew.Pirate{weak, strong}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, picks)

	require.NoError(t, weak.Equip(&crew.Artifact{Name: "Hook", Combat: 1}))
	idx, err := a.EquipArtifact(ctx, []*crew.Pirate{weak, strong}, &crew.Artifact{Name: "Map"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	e := encounter.New(encounter.Template{Title: "Storm", Options: []encounter.Option{
		{Text: "Hide", SuccessOdds: 0.5}, {Text: "Steer", SuccessOdds: 3},
	}})
	opt, err := a.ChooseEncounterOption(ctx, weak, e)
	require.NoError(t, err)
	assert.Equal(t, 1, opt)
}

func TestScripted(t *testing.T) {
	ctx := context.Background()
	s := NewScripted(Script{Quests: []int{2, 0}, Bounties: []int{30}, Options: []int{1}})

	q, err := s.ChooseQuest(ctx, run.Board{})
	require.NoError(t, err)
	assert.Equal(t, 1, q)
	q, err = s.ChooseQuest(ctx, run.Board{})
	require.NoError(t, err)
	assert.Equal(t, run.SkipPinning, q)
	q, err = s.ChooseQuest(ctx, run.Board{})
	require.NoError(t, err)
	assert.Equal(t, run.SkipPinning, q)

	b, err := s.ChooseBounty(ctx, run.Board{}, &quest.Quest{Name: "Raid"})
	require.NoError(t, err)
	assert.Equal(t, 30, b)
	_, err = s.ChooseBounty(ctx, run.Board{}, &quest.Quest{Name: "Raid"})
	assert.ErrorIs(t, err, ErrScriptExhausted)

	s.Warn(ctx, "nope")
	assert.Equal(t, []string{"nope"}, s.Warnings())
}

func TestRenderBoard(t *testing.T) {
	out := RenderBoard(board(t), 60)
	for _, want := range []string{
		"-- ❕ TURN 1 EVENTS --",
		"    💰 Jack took a 10 gold cut",
		"0) Next turn",
		"2) D 2 - R 80\t[smuggling]\t| Smuggle rum",
		"Expires in 1 turn(s)",
		"NOTORIETY [///_______]",
		`    Took some time for myself to go "Play cards"`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "> EMPTY BOARD")
}

func TestNotorietyBar(t *testing.T) {
	assert.Equal(t, "___", NotorietyBar(0, 3))
	assert.Equal(t, "///", NotorietyBar(5, 3))
	assert.Equal(t, "/__", NotorietyBar(1, 3))
}
