package patient

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("patient not found")
	ErrValidation = errors.New("validation failed")
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// Kind distinguishes a child patient (has a grade) from an adult or guardian
// patient (has a children count).
type Kind string

const (
	KindChild Kind = "child"
	KindAdult Kind = "adult"
)

// Patient is a row of the patients list. Exactly one of Grade and Children is
// set.
type Patient struct {
	ID           string  `yaml:"id" json:"id"`
	Name         string  `yaml:"name" json:"name"`
	Age          int     `yaml:"age" json:"age"`
	Grade        *string `yaml:"grade,omitempty" json:"grade,omitempty"`
	Children     *int    `yaml:"children,omitempty" json:"children,omitempty"`
	LastTestDate string  `yaml:"last_test_date" json:"last_test_date"`
	Status       Status  `yaml:"status" json:"status"`
	Email        *string `yaml:"email,omitempty" json:"email,omitempty"`
}

func (p *Patient) Kind() Kind {
	if p.Grade != nil {
		return KindChild
	}
	return KindAdult
}

func (p *Patient) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: patient %s: name is required", ErrValidation, p.ID)
	}
	if p.Age < 0 {
		return fmt.Errorf("%w: patient %s: age must be >= 0", ErrValidation, p.ID)
	}
	if (p.Grade == nil) == (p.Children == nil) {
		return fmt.Errorf("%w: patient %s: exactly one of grade or children must be set", ErrValidation, p.ID)
	}
	if p.Children != nil && *p.Children < 0 {
		return fmt.Errorf("%w: patient %s: children must be >= 0", ErrValidation, p.ID)
	}
	if p.Status != StatusActive && p.Status != StatusCompleted {
		return fmt.Errorf("%w: patient %s: invalid status %q", ErrValidation, p.ID, p.Status)
	}
	return nil
}

func (p *Patient) clone() *Patient {
	cp := *p
	if p.Grade != nil {
		g := *p.Grade
		cp.Grade = &g
	}
	if p.Children != nil {
		n := *p.Children
		cp.Children = &n
	}
	if p.Email != nil {
		e := *p.Email
		cp.Email = &e
	}
	return &cp
}

// Child is a dependant shown on a guardian's detail panel.
type Child struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Age       int    `yaml:"age" json:"age"`
	Class     string `yaml:"class" json:"class"`
	PatientID string `yaml:"patient_id" json:"patient_id"`
}

// CompletedTest is a finished assessment shown on a patient's detail panel.
type CompletedTest struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	CompletedDate string `yaml:"completed_date" json:"completed_date"`
	PatientID     string `yaml:"patient_id" json:"patient_id"`
}

// Detail is what the patient detail panel renders for a selection.
type Detail struct {
	Patient  *Patient        `json:"patient"`
	Kind     Kind            `json:"kind"`
	Children []Child         `json:"children"`
	Tests    []CompletedTest `json:"tests"`
}

// Intake is the "Add Patient" form.
type Intake struct {
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	Email          string        `json:"email"`
	PhoneNumber    string        `json:"phone_number"`
	BirthDate      string        `json:"birth_date"`
	NativeLanguage string        `json:"native_language"`
	Clinic         string        `json:"clinic"`
	Phone          string        `json:"phone"`
	AdultIsPatient bool          `json:"adult_is_patient"`
	Children       []ChildIntake `json:"children"`
}

// ChildIntake is one repeatable child block of the intake form.
type ChildIntake struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	BirthDate      string `json:"birth_date"`
	NativeLanguage string `json:"native_language"`
	Class          string `json:"class"`
}

func (in *Intake) Validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return fmt.Errorf("%w: first_name is required", ErrValidation)
	}
	if strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: last_name is required", ErrValidation)
	}
	if !in.AdultIsPatient && len(in.Children) == 0 {
		return fmt.Errorf("%w: add at least one child or mark the adult as the patient", ErrValidation)
	}
	if in.BirthDate != "" {
		if _, err := time.Parse(dateLayout, in.BirthDate); err != nil {
			return fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrValidation)
		}
	}
	for i, c := range in.Children {
		if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
			return fmt.Errorf("%w: children[%d]: first_name and last_name are required", ErrValidation, i)
		}
		if strings.TrimSpace(c.Class) == "" {
			return fmt.Errorf("%w: children[%d]: class is required", ErrValidation, i)
		}
		if c.BirthDate != "" {
			if _, err := time.Parse(dateLayout, c.BirthDate); err != nil {
				return fmt.Errorf("%w: children[%d]: birth_date must be YYYY-MM-DD", ErrValidation, i)
			}
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

// ageOn returns the age in whole years on the given day, 0 when birthDate is
// empty or unparsable.
func ageOn(birthDate string, now time.Time) int {
	b, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return 0
	}
	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func strPtr(s string) *string { return &s }
