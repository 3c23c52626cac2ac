package quest

import (
	"math/rand"
)

type fakeCrewmate struct {
	name     string
	cautious bool
	quest    *Quest
	gold     int
}

func (c *fakeCrewmate) Name() string           { return c.name }
func (c *fakeCrewmate) AssignQuest(q *Quest)   { c.quest = q }
func (c *fakeCrewmate) OnAQuest() bool         { return c.quest != nil && !c.quest.IsIdle() }
func (c *fakeCrewmate) ReceiveGold(amount int) { c.gold += amount }
func (c *fakeCrewmate) IsCautious() bool       { return c.cautious }

type fakeSource struct {
	templates map[int]Template
	idle      []Template
}

func (s *fakeSource) QuestTemplate(id int) (Template, bool) {
	t, ok := s.templates[id]
	return t, ok
}

func (s *fakeSource) IdleTemplates() []Template { return s.idle }

type fakeRegion struct {
	discovered bool
	distance   int
	quest      *Quest
}

func (r *fakeRegion) Discovered() bool { return r.discovered }
func (r *fakeRegion) Explore() *Quest  { r.discovered = true; return r.quest }
func (r *fakeRegion) Quest() *Quest    { return r.quest }
func (r *fakeRegion) Distance() int    { return r.distance }
func (r *fakeRegion) String() string   { return "Tortuga Cove, 3 leagues to the NORTH" }

type fakeWorld struct {
	rng       *rand.Rand
	factory   *Factory
	gold      int
	notoriety int
	crew      []Crewmate
	posted    []*Quest
	stranded  []Crewmate
	recruits  []string
}

func newFakeWorld(crew ...Crewmate) *fakeWorld {
	rng := rand.New(rand.NewSource(7))
	return &fakeWorld{
		rng:     rng,
		factory: NewFactory(&fakeSource{}, rng),
		crew:    crew,
	}
}

func (w *fakeWorld) Rand() *rand.Rand       { return w.rng }
func (w *fakeWorld) Factory() *Factory      { return w.factory }
func (w *fakeWorld) AddGold(amount int)     { w.gold += amount }
func (w *fakeWorld) AddNotoriety(delta int) { w.notoriety += delta }
func (w *fakeWorld) Crew() []Crewmate       { return w.crew }

func (w *fakeWorld) PostQuests(qs ...*Quest) []*Quest {
	var added []*Quest
	for _, q := range qs {
		dup := false
		for _, p := range w.posted {
			if p.Name == q.Name {
				dup = true
				break
			}
		}
		if !dup {
			w.posted = append(w.posted, q)
			added = append(added, q)
		}
	}
	return added
}

func (w *fakeWorld) StrandCrewmate(c Crewmate) bool {
	for i, m := range w.crew {
		if m == c {
			w.crew = append(w.crew[:i], w.crew[i+1:]...)
			w.stranded = append(w.stranded, c)
			return true
		}
	}
	return false
}

func (w *fakeWorld) ReturnCrewmate(c Crewmate) bool {
	for i, m := range w.stranded {
		if m == c {
			w.stranded = append(w.stranded[:i], w.stranded[i+1:]...)
			w.crew = append(w.crew, c)
			return true
		}
	}
	return false
}

func (w *fakeWorld) RecruitPirate() (string, bool) {
	if len(w.recruits) == 0 {
		return "", false
	}
	name := w.recruits[0]
	w.recruits = w.recruits[1:]
	return name, true
}
