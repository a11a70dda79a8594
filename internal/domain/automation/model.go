package automation

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("function not found")
	ErrValidation = errors.New("validation failed")
)

type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusActive    Status = "ACTIVE"
	StatusScheduled Status = "SCHEDULED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusActive, StatusScheduled:
		return true
	}
	return false
}

// Function is a data-processing routine that can be run against a patient's
// recordings.
type Function struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Status      Status `yaml:"status" json:"status"`
}

func (f *Function) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: function %s: name is required", ErrValidation, f.ID)
	}
	if !f.Status.Valid() {
		return fmt.Errorf("%w: function %s: invalid status %q", ErrValidation, f.ID, f.Status)
	}
	return nil
}
