package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinicboard/clinicboard/internal/platform/search"
)

type Service struct {
	patients PatientRepository
	now      func() time.Time
}

func NewService(patients PatientRepository) *Service {
	return &Service{patients: patients, now: time.Now}
}

func searchFields(p *Patient) []string { return []string{p.Name, p.ID} }

// SearchPatients filters the patient list by name or id and, when status is
// non-empty, by exact status.
func (s *Service) SearchPatients(ctx context.Context, query, status string) ([]*Patient, error) {
	if status != "" && Status(status) != StatusActive && Status(status) != StatusCompleted {
		return nil, fmt.Errorf("%w: invalid status: %s", ErrValidation, status)
	}
	all, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(all, query, searchFields, search.Facet[*Patient]{
		Name:  "status",
		Value: status,
		Field: func(p *Patient) string { return string(p.Status) },
	}), nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// GetDetail gathers everything the detail panel shows for one patient.
func (s *Service) GetDetail(ctx context.Context, id string) (*Detail, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.patients.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	tests, err := s.patients.ListTests(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Patient: p, Kind: p.Kind(), Children: children, Tests: tests}, nil
}

// RegisterIntake turns an "Add Patient" form into list rows: one guardian
// row carrying the children count and one child row per child block. When
// the adult is the patient and no children are given, the guardian row is the
// only one created.
func (s *Service) RegisterIntake(ctx context.Context, in *Intake) ([]*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.now()

	count := len(in.Children)
	guardian := &Patient{
		Name:     joinName(in.FirstName, in.LastName),
		Age:      ageOn(in.BirthDate, now),
		Children: &count,
		Status:   StatusActive,
	}
	if e := strings.TrimSpace(in.Email); e != "" {
		guardian.Email = strPtr(e)
	}
	if err := s.patients.Create(ctx, guardian); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	created := []*Patient{guardian}

	for _, ci := range in.Children {
		child := &Patient{
			Name:   joinName(ci.FirstName, ci.LastName),
			Age:    ageOn(ci.BirthDate, now),
			Grade:  strPtr(strings.TrimSpace(ci.Class)),
			Status: StatusActive,
		}
		if e := strings.TrimSpace(ci.Email); e != "" {
			child.Email = strPtr(e)
		}
		if err := s.patients.Create(ctx, child); err != nil {
			return nil, fmt.Errorf("create child patient: %w", err)
		}
		if err := s.patients.AddChild(ctx, Child{
			Name:      child.Name,
			Age:       child.Age,
			Class:     *child.Grade,
			PatientID: guardian.ID,
		}); err != nil {
			return nil, fmt.Errorf("link child: %w", err)
		}
		created = append(created, child)
	}
	return created, nil
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
