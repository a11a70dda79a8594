package assessment

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("assessment not found")
	ErrValidation = errors.New("validation failed")
)

// AllCategories is the sidebar entry that disables the category facet.
const AllCategories = "All tests"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Assessment is an entry of the test catalog. Catalog rows are immutable.
type Assessment struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Category    string     `yaml:"category" json:"category"`
	Description string     `yaml:"description" json:"description"`
	Duration    int        `yaml:"duration" json:"duration"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty"`
}

func (a *Assessment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if a.Title == "" {
		return fmt.Errorf("%w: assessment %s: title is required", ErrValidation, a.ID)
	}
	if a.Duration <= 0 {
		return fmt.Errorf("%w: assessment %s: duration must be > 0", ErrValidation, a.ID)
	}
	if !a.Difficulty.Valid() {
		return fmt.Errorf("%w: assessment %s: invalid difficulty %q", ErrValidation, a.ID, a.Difficulty)
	}
	return nil
}
