// Package worldmap lays out the sea around the tavern's island: one region
// per compass direction, some of them hiding the first quest of a chain
// that only becomes available once the region is explored.
package worldmap

import (
	"fmt"
	"math/rand"

	"github.com/guischmitd/piratesim2024/pkg/quest"
)

// DefaultQuestsToSpawn is how many regions hide a chain quest.
const DefaultQuestsToSpawn = 4

// Direction is a compass heading from the island.
type Direction string

const (
	North     Direction = "NORTH"
	South     Direction = "SOUTH"
	East      Direction = "EAST"
	West      Direction = "WEST"
	Northeast Direction = "NORTHEAST"
	Northwest Direction = "NORTHWEST"
	Southeast Direction = "SOUTHEAST"
	Southwest Direction = "SOUTHWEST"
)

// Directions lists every heading in map order.
var Directions = []Direction{North, South, East, West, Northeast, Northwest, Southeast, Southwest}

var islandNames = []string{
	"Blackwater", "Crimson", "Skullfang", "Serpent's", "Deadman's", "Lost Anchor",
	"Pirate's", "Stormwatch", "Cursed", "Tortuga", "Golden Sands", "Mermaid's",
	"Wraith's", "Devil's", "Sharktooth", "Cutlass", "Plunderer's", "Raven's",
	"Thunder", "Shipwreck", "Bloodmoon", "Whispering", "Hurricane", "Marauder's",
	"Siren's", "Fogbound", "Jagged Edge", "Rogue's", "Emerald", "Silver Skull",
}

var islandTypes = []string{
	"Isle", "Reef", "Atoll", "Quay", "Cove", "Cay", "Rest", "Bay", "Lagoon",
	"Haven", "Reach", "Key", "Nest", "Shoals", "Point", "Hideaway", "Call", "Island",
}

// Region is the stretch of sea in one direction.
type Region struct {
	island     string
	direction  Direction
	distance   int
	quest      *quest.Quest
	discovered bool
}

// Island is the region's island name.
func (r *Region) Island() string { return r.island }

// Direction is where the region lies from the tavern.
func (r *Region) Direction() Direction { return r.direction }

func (r *Region) Discovered() bool { return r.discovered }

// Explore marks the region discovered and returns the quest it hides, if any.
func (r *Region) Explore() *quest.Quest {
	r.discovered = true
	return r.quest
}

// Quest is the chain quest hidden in the region, nil when none.
func (r *Region) Quest() *quest.Quest { return r.quest }

func (r *Region) Distance() int { return r.distance }

// String names the island once discovered, e.g.
// "Tortuga Cove, 3 leagues to the NORTH" or "???, 3 leagues to the NORTH".
func (r *Region) String() string {
	name := "???"
	if r.discovered {
		name = r.island
	}
	return fmt.Sprintf("%s, %d leagues to the %s", name, r.distance, r.direction)
}

// ExplorationTemplate describes the voyage that discovers the region.
func (r *Region) ExplorationTemplate() quest.Template {
	return quest.Template{
		Name:          fmt.Sprintf("Explore the region %d leagues to the %s", r.distance, r.direction),
		Type:          quest.TypeExploration,
		DifficultyMin: 1,
		DifficultyMax: 2,
		RewardMin:     0,
		RewardMax:     100,
		Expiration:    10,
		Retry:         true,
	}
}

// Map holds one region per direction.
type Map struct {
	regions map[Direction]*Region
}

// Generate builds a map whose regions hide up to questsToSpawn quests built
// from distinct chain roots, placed in distinct random directions.
func Generate(f *quest.Factory, roots []quest.Template, questsToSpawn int, rng *rand.Rand) (*Map, error) {
	questsToSpawn = min(questsToSpawn, len(roots), len(Directions))

	hidden := make(map[Direction]*quest.Quest, questsToSpawn)
	rootOrder := rng.Perm(len(roots))
	dirOrder := rng.Perm(len(Directions))
	for i := range questsToSpawn {
		q, err := f.FromTemplate(roots[rootOrder[i]], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to hide a quest in the %s: %w", Directions[dirOrder[i]], err)
		}
		hidden[Directions[dirOrder[i]]] = q
	}

	m := &Map{regions: make(map[Direction]*Region, len(Directions))}
	for _, d := range Directions {
		m.regions[d] = &Region{
			island:    islandNames[rng.Intn(len(islandNames))] + " " + islandTypes[rng.Intn(len(islandTypes))],
			direction: d,
			distance:  2 + rng.Intn(4),
			quest:     hidden[d],
		}
	}
	return m, nil
}

// Region returns the region in direction d.
func (m *Map) Region(d Direction) *Region { return m.regions[d] }

// Regions returns every region in map order.
func (m *Map) Regions() []*Region {
	out := make([]*Region, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, m.regions[d])
	}
	return out
}

// Undiscovered returns the regions not yet explored, in map order.
func (m *Map) Undiscovered() []*Region {
	var out []*Region
	for _, r := range m.Regions() {
		if !r.discovered {
			out = append(out, r)
		}
	}
	return out
}

// ExplorationQuests builds an exploration quest for every undiscovered
// region whose quest is not already in play.
func (m *Map) ExplorationQuests(f *quest.Factory, inPlay func(name string) bool) ([]*quest.Quest, error) {
	var out []*quest.Quest
	for _, r := range m.Undiscovered() {
		t := r.ExplorationTemplate()
		if inPlay != nil && inPlay(t.Name) {
			continue
		}
		q, err := f.FromTemplate(t, r)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
