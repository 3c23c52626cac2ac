package crew

import (
	"errors"
	"fmt"

	"github.com/guischmitd/piratesim2024/pkg/trait"
)

// Template is the content-bank description of a recruitable pirate.
type Template struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Trait       string `yaml:"trait" json:"trait"`
	Navigation  int    `yaml:"navigation" json:"navigation"`
	Combat      int    `yaml:"combat" json:"combat"`
	Trickyness  int    `yaml:"trickyness" json:"trickyness"`
	Level       int    `yaml:"level" json:"level"` // unlock tier
}

// Validate checks the template's trait and stat ranges.
func (t Template) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if _, err := trait.Lookup(t.Trait); err != nil {
		errs = append(errs, err)
	}
	for stat, v := range map[string]int{"navigation": t.Navigation, "combat": t.Combat, "trickyness": t.Trickyness} {
		if v < 0 || v > MaxStat {
			errs = append(errs, fmt.Errorf("%s must be between 0 and %d, got %d", stat, MaxStat, v))
		}
	}
	if t.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be at least 1, got %d", t.Level))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("pirate %q: %w", t.Name, err)
	}
	return nil
}
