package worldmap

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guischmitd/piratesim2024/pkg/quest"
)

type noTemplates struct{}

func (noTemplates) QuestTemplate(int) (quest.Template, bool) { return quest.Template{}, false }
func (noTemplates) IdleTemplates() []quest.Template          { return nil }

var roots = []quest.Template{
	{ID: 1, Name: "Raid the Navy outpost", Type: quest.TypeCombat, DifficultyMin: 2, DifficultyMax: 3, IsChainRoot: true},
	{ID: 2, Name: "Smuggle silk", Type: quest.TypeSmuggling, DifficultyMin: 1, DifficultyMax: 2, IsChainRoot: true},
	{ID: 3, Name: "Find the sunken bell", Type: quest.TypeTreasure, DifficultyMin: 3, DifficultyMax: 4, IsChainRoot: true},
	{ID: 4, Name: "Escort the smuggler", Type: quest.TypeEscort, DifficultyMin: 1, DifficultyMax: 1, IsChainRoot: true},
	{ID: 5, Name: "Steal the governor's wig", Type: quest.TypeTheft, DifficultyMin: 2, DifficultyMax: 2, IsChainRoot: true},
}

func generate(t *testing.T, seed int64, spawn int) (*Map, *quest.Factory) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	f := quest.NewFactory(noTemplates{}, rng)
	m, err := Generate(f, roots, spawn, rng)
	require.NoError(t, err)
	return m, f
}

func TestGenerate(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		m, _ := generate(t, seed, DefaultQuestsToSpawn)
		regions := m.Regions()
		require.Len(t, regions, len(Directions))

		names := map[string]bool{}
		for i, r := range regions {
			assert.Equal(t, Directions[i], r.Direction())
			assert.GreaterOrEqual(t, r.Distance(), 2)
			assert.LessOrEqual(t, r.Distance(), 5)
			assert.False(t, r.Discovered())
			if r.Quest() != nil {
				assert.False(t, names[r.Quest().Name], "roots are sampled without replacement")
				names[r.Quest().Name] = true
			}
		}
		assert.Len(t, names, DefaultQuestsToSpawn)
	}
}

func TestGenerate_FewerRootsThanSpawns(t *testing.T) {
	m, _ := generate(t, 1, 20)
	hidden := 0
	for _, r := range m.Regions() {
		if r.Quest() != nil {
			hidden++
		}
	}
	assert.Equal(t, len(roots), hidden)
}

func TestRegion_String(t *testing.T) {
	r := &Region{island: "Tortuga Cove", direction: North, distance: 3}
	assert.Equal(t, "???, 3 leagues to the NORTH", r.String())
	r.Explore()
	assert.Equal(t, "Tortuga Cove, 3 leagues to the NORTH", r.String())
}

var explorationName = regexp.MustCompile(`^Explore the region [2-5] leagues to the [A-Z]+$`)

func TestExplorationQuests(t *testing.T) {
	m, f := generate(t, 4, DefaultQuestsToSpawn)

	quests, err := m.ExplorationQuests(f, nil)
	require.NoError(t, err)
	require.Len(t, quests, len(Directions))

	for _, q := range quests {
		assert.Regexp(t, explorationName, q.Name)
		assert.Equal(t, quest.TypeExploration, q.Type)
		assert.Equal(t, 10, q.Expiration)
		assert.True(t, quest.HasKind(q.SuccessEffects, quest.KindRegionDiscovered))
		assert.True(t, quest.HasKind(q.FailureEffects, quest.KindRetry))
		assert.LessOrEqual(t, q.Difficulty, 2)
	}

	first := quests[0]
	m.Region(North).Explore()
	inPlay := func(name string) bool { return name == first.Name }
	again, err := m.ExplorationQuests(f, inPlay)
	require.NoError(t, err)
	assert.Len(t, again, len(Directions)-1)
	for _, q := range again {
		assert.NotEqual(t, first.Name, q.Name)
	}
}

func TestExplorationDiscoversHiddenQuest(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		m, f := generate(t, seed, DefaultQuestsToSpawn)
		for _, r := range m.Regions() {
			if r.Quest() == nil {
				continue
			}
			q, err := f.FromTemplate(r.ExplorationTemplate(), r)
			require.NoError(t, err)
			assert.True(t, quest.HasKind(q.SuccessEffects, quest.KindNewQuest))
		}
	}
}
