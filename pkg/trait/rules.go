package trait

import (
	"github.com/guischmitd/piratesim2024/pkg/quest"
	"github.com/guischmitd/piratesim2024/pkg/roulette"
)

type (
	selectionRule  func(*quest.Quest) (roulette.Modifier, bool)
	resolutionRule func(*quest.Quest) roulette.Modifier
	progressRule   func(*quest.Quest) int
)

var descriptions = map[Kind]string{
	Bold:          "Goes after the hardest voyages and hates sitting still.",
	Cautious:      "Prefers easy work and never draws the Navy's eye.",
	Greedy:        "Chases big rewards and wants a bigger cut.",
	Loyal:         "Never leaves a mate behind and asks for little.",
	Impulsive:     "Rushes through voyages, sometimes too fast.",
	Strategic:     "Plans every route and rarely fails a voyage.",
	Superstitious: "Will not go near anything cursed.",
	Brutal:        "Lives for a fight, bored by anything else.",
	Resourceful:   "Makes the most of errands and odd jobs.",
	Cowardly:      "Avoids fights and loves the tavern.",
	Tricky:        "Thrives on theft and smuggling.",
}

var selectionRules = map[Kind]selectionRule{
	Bold: func(q *quest.Quest) (roulette.Modifier, bool) {
		switch {
		case q.IsIdle():
			return roulette.Mul(0.5), true
		case q.Difficulty >= 4:
			return roulette.Mul(1.5), true
		}
		return roulette.Modifier{}, false
	},
	Cautious: func(q *quest.Quest) (roulette.Modifier, bool) {
		switch {
		case q.IsIdle():
			return roulette.Modifier{}, false
		case q.Difficulty >= 4:
			return roulette.Mul(0.5), true
		case q.Difficulty <= 2:
			return roulette.Add(0.5), true
		}
		return roulette.Modifier{}, false
	},
	Greedy: func(q *quest.Quest) (roulette.Modifier, bool) {
		if q.Reward >= 200 {
			return roulette.Add(1.0), true
		}
		return roulette.Modifier{}, false
	},
	Loyal: func(q *quest.Quest) (roulette.Modifier, bool) {
		if q.Type == quest.TypeRescue || q.Type == quest.TypeEscort {
			return roulette.Add(1.0), true
		}
		return roulette.Modifier{}, false
	},
	Impulsive: func(q *quest.Quest) (roulette.Modifier, bool) {
		if q.IsIdle() {
			return roulette.Mul(0.25), true
		}
		return roulette.Modifier{}, false
	},
	Strategic: func(q *quest.Quest) (roulette.Modifier, bool) {
		if q.Type == quest.TypeExploration || q.Type == quest.TypeDelivery {
			return roulette.Add(0.5), true
		}
		return roulette.Modifier{}, false
	},
	Superstitious: func(q *quest.Quest) (roulette.Modifier, bool) {
		if q.IsCursed() {
			return roulette.Mul(0), true
		}
		return roulette.Modifier{}, false
	},
	Brutal: func(q *quest.Quest) (roulette.Modifier, bool) {
		switch {
		case q.IsIdle():
			return roulette.Modifier{}, false
		case q.Type == quest.TypeCombat:
			return roulette.Add(1.0), true
		}
		return roulette.Add(-0.25), true
	},
	Resourceful: func(q *quest.Quest) (roulette.Modifier, bool) {
		if q.Type == quest.TypeFetch || q.Type == quest.TypeSmuggling {
			return roulette.Add(0.5), true
		}
		return roulette.Modifier{}, false
	},
	Cowardly: func(q *quest.Quest) (roulette.Modifier, bool) {
		switch {
		case q.IsIdle():
			return roulette.Mul(2), true
		case q.Type == quest.TypeCombat:
			return roulette.Mul(0.1), true
		}
		return roulette.Modifier{}, false
	},
	Tricky: func(q *quest.Quest) (roulette.Modifier, bool) {
		switch q.Type {
		case quest.TypeTheft, quest.TypeSmuggling, quest.TypeTreasure:
			return roulette.Add(0.5), true
		}
		return roulette.Modifier{}, false
	},
}

var resolutionRules = map[Kind]resolutionRule{
	Bold: func(*quest.Quest) roulette.Modifier { return roulette.Add(0.5) },
	Cautious: func(q *quest.Quest) roulette.Modifier {
		if q.Difficulty <= 2 {
			return roulette.Add(0.5)
		}
		return roulette.Identity
	},
	Loyal: func(q *quest.Quest) roulette.Modifier {
		if q.Type == quest.TypeRescue || q.Type == quest.TypeEscort {
			return roulette.Add(0.5)
		}
		return roulette.Identity
	},
	Impulsive: func(*quest.Quest) roulette.Modifier { return roulette.Add(-0.25) },
	Strategic: func(*quest.Quest) roulette.Modifier { return roulette.Mul(1.25) },
	Superstitious: func(q *quest.Quest) roulette.Modifier {
		if q.IsCursed() {
			return roulette.Mul(0.5)
		}
		return roulette.Identity
	},
	Brutal: func(q *quest.Quest) roulette.Modifier {
		if q.Type == quest.TypeCombat {
			return roulette.Add(1.0)
		}
		return roulette.Add(-0.25)
	},
	Resourceful: func(*quest.Quest) roulette.Modifier { return roulette.Add(0.25) },
	Cowardly: func(q *quest.Quest) roulette.Modifier {
		if q.Type == quest.TypeCombat {
			return roulette.Add(-0.5)
		}
		return roulette.Identity
	},
	Tricky: func(q *quest.Quest) roulette.Modifier {
		if q.Type == quest.TypeTheft || q.Type == quest.TypeSmuggling {
			return roulette.Add(0.5)
		}
		return roulette.Identity
	},
}

var progressRules = map[Kind]progressRule{
	Impulsive: func(*quest.Quest) int { return 1 },
	Resourceful: func(q *quest.Quest) int {
		if q.Type == quest.TypeFetch || q.Type == quest.TypeDelivery {
			return 1
		}
		return 0
	},
}

var bountyBias = map[Kind]int{
	Greedy:   10,
	Loyal:    -5,
	Cowardly: 5,
}
