package report

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("report not found")
	ErrValidation = errors.New("validation failed")
)

type Status string

const (
	StatusCompleted     Status = "COMPLETED"
	StatusPendingReview Status = "PENDING REVIEW"
)

// StatusFor derives a report's status from its score: a score of 0 means the
// report has not been scored yet.
func StatusFor(score int) Status {
	if score == 0 {
		return StatusPendingReview
	}
	return StatusCompleted
}

// Report is a row of the reports table. Status is never set independently of
// Score; call Normalize after building a Report by hand.
type Report struct {
	ID          string `yaml:"id" json:"id"`
	PatientName string `yaml:"patient_name" json:"patient_name"`
	PatientID   string `yaml:"patient_id" json:"patient_id"`
	TestName    string `yaml:"test_name" json:"test_name"`
	Date        string `yaml:"date" json:"date"`
	Score       int    `yaml:"score" json:"score"`
	Status      Status `yaml:"-" json:"status"`
}

func (r *Report) Normalize() {
	r.Status = StatusFor(r.Score)
}

func (r *Report) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("%w: report %s: score must be between 0 and 100", ErrValidation, r.ID)
	}
	return nil
}
