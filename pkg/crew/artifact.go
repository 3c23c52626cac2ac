package crew

import (
	"errors"
	"fmt"
	"strings"
)

// Artifact is a trinket a pirate can carry into a run. Its modifiers are
// added to the pirate's raw stats on equip and taken off on unequip.
type Artifact struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Navigation  int    `yaml:"navigation_modifier" json:"navigation_modifier"`
	Combat      int    `yaml:"combat_modifier" json:"combat_modifier"`
	Trickyness  int    `yaml:"trickyness_modifier" json:"trickyness_modifier"`
}

// Validate checks that the artifact is named and does something.
func (a Artifact) Validate() error {
	if a.Name == "" {
		return errors.New("artifact name is required")
	}
	if a.Navigation == 0 && a.Combat == 0 && a.Trickyness == 0 {
		return fmt.Errorf("artifact %q has no modifiers", a.Name)
	}
	return nil
}

// Summary is the description followed by what the artifact changes, e.g.
// "A cracked spyglass. Increases NAVIGATION by 2. Reduces COMBAT by 1."
func (a Artifact) Summary() string {
	var increased, reduced []string
	for _, m := range []struct {
		name  string
		value int
	}{
		{"NAVIGATION", a.Navigation},
		{"COMBAT", a.Combat},
		{"TRICKYNESS", a.Trickyness},
	} {
		switch {
		case m.value > 0:
			increased = append(increased, fmt.Sprintf("%s by %d", m.name, m.value))
		case m.value < 0:
			reduced = append(reduced, fmt.Sprintf("%s by %d", m.name, -m.value))
		}
	}

	parts := []string{strings.TrimSpace(a.Description)}
	if len(increased) > 0 {
		parts = append(parts, "Increases "+strings.Join(increased, ", ")+".")
	}
	if len(reduced) > 0 {
		parts = append(parts, "Reduces "+strings.Join(reduced, ", ")+".")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (a *Artifact) String() string { return a.Name }
