package quest

import (
	"errors"
	"fmt"
)

// Template is a content-bank row describing how to generate a quest.
// IDs start at 1; NextInChain 0 means the quest ends its chain.
type Template struct {
	ID               int    `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	Type             Type   `yaml:"type" json:"type"`
	DifficultyMin    int    `yaml:"difficulty_min" json:"difficulty_min"`
	DifficultyMax    int    `yaml:"difficulty_max" json:"difficulty_max"`
	RewardMin        int    `yaml:"reward_min" json:"reward_min"`
	RewardMax        int    `yaml:"reward_max" json:"reward_max"`
	SuccessNotoriety int    `yaml:"success_notoriety" json:"success_notoriety"`
	FailureNotoriety int    `yaml:"failure_notoriety" json:"failure_notoriety"`
	Expiration       int    `yaml:"expiration,omitempty" json:"expiration,omitempty"`
	NextInChain      int    `yaml:"next_in_chain,omitempty" json:"next_in_chain,omitempty"`
	IsChainRoot      bool   `yaml:"is_chain_root,omitempty" json:"is_chain_root,omitempty"`
	Retry            bool   `yaml:"retry,omitempty" json:"retry,omitempty"`
	UnlocksPirate    bool   `yaml:"unlocks_pirate,omitempty" json:"unlocks_pirate,omitempty"`
}

// Validate checks the template's ranges and type.
func (t Template) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if _, err := ParseType(string(t.Type)); err != nil {
		errs = append(errs, err)
	}
	if t.DifficultyMin < 1 {
		errs = append(errs, fmt.Errorf("difficulty_min must be at least 1, got %d", t.DifficultyMin))
	}
	if t.DifficultyMax < t.DifficultyMin {
		errs = append(errs, fmt.Errorf("difficulty_max %d is below difficulty_min %d", t.DifficultyMax, t.DifficultyMin))
	}
	if t.RewardMax < t.RewardMin {
		errs = append(errs, fmt.Errorf("reward_max %d is below reward_min %d", t.RewardMax, t.RewardMin))
	}
	if t.Expiration < 0 {
		errs = append(errs, fmt.Errorf("expiration cannot be negative, got %d", t.Expiration))
	}
	if t.NextInChain != 0 && t.NextInChain == t.ID {
		errs = append(errs, fmt.Errorf("next_in_chain points back at itself (%d)", t.ID))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("quest template %d (%s): %w", t.ID, t.Name, err)
	}
	return nil
}
