package encounter

import "math/rand"

// Manager deals random encounters from a template bank.
type Manager struct {
	templates []Template
	rng       *rand.Rand
}

// NewManager creates a manager drawing from rng.
func NewManager(templates []Template, rng *rand.Rand) *Manager {
	return &Manager{templates: templates, rng: rng}
}

// Create returns a random encounter, or false when the bank is empty.
func (m *Manager) Create() (*Encounter, bool) {
	if len(m.templates) == 0 {
		return nil, false
	}
	return New(m.templates[m.rng.Intn(len(m.templates))]), true
}
