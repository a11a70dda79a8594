package patient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func seedPatients() []*Patient {
	return []*Patient{
		{ID: "1", Name: "Jane Doe", Age: 42, Children: intPtr(3), LastTestDate: "2024-12-10", Status: StatusCompleted},
		{ID: "2", Name: "John Smith", Age: 9, Grade: strPtr("4th Grade A"), LastTestDate: "2024-12-08", Status: StatusActive},
	}
}

func newTestService() *Service {
	repo := NewMemoryRepo(seedPatients(),
		[]Child{
			{ID: "1", Name: "Jill Doe", Age: 9, Class: "Class 4A", PatientID: "1"},
			{ID: "2", Name: "John Doe", Age: 7, Class: "Class 2B", PatientID: "1"},
		},
		[]CompletedTest{
			{ID: "1", Name: "Reading Assessment", CompletedDate: "2024-12-10", PatientID: "1"},
		})
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSearchPatients_QueryJohn(t *testing.T) {
	svc := newTestService()
	got, err := svc.SearchPatients(context.Background(), "john", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only patient 2, got %+v", got)
	}
}

func TestSearchPatients_EmptyQueryReturnsAllInOrder(t *testing.T) {
	svc := newTestService()
	got, err := svc.SearchPatients(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("expected [1 2], got %+v", got)
	}
}

func TestSearchPatients_MatchesID(t *testing.T) {
	svc := newTestService()
	got, _ := svc.SearchPatients(context.Background(), "2", "")
	if len(got) != 1 || got[0].Name != "John Smith" {
		t.Fatalf("expected John Smith, got %+v", got)
	}
}

func TestSearchPatients_StatusFacet(t *testing.T) {
	svc := newTestService()
	got, err := svc.SearchPatients(context.Background(), "", "COMPLETED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only patient 1, got %+v", got)
	}
}

func TestSearchPatients_InvalidStatus(t *testing.T) {
	svc := newTestService()
	_, err := svc.SearchPatients(context.Background(), "", "archived")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetDetail_Guardian(t *testing.T) {
	svc := newTestService()
	d, err := svc.GetDetail(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != KindAdult {
		t.Errorf("expected adult kind, got %s", d.Kind)
	}
	if len(d.Children) != 2 {
		t.Errorf("expected 2 children, got %d", len(d.Children))
	}
	if len(d.Tests) != 1 {
		t.Errorf("expected 1 test, got %d", len(d.Tests))
	}
}

func TestGetDetail_ChildHasNoDependants(t *testing.T) {
	svc := newTestService()
	d, err := svc.GetDetail(context.Background(), "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != KindChild {
		t.Errorf("expected child kind, got %s", d.Kind)
	}
	if d.Children == nil || len(d.Children) != 0 {
		t.Errorf("expected empty children slice, got %v", d.Children)
	}
}

func TestGetDetail_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetDetail(context.Background(), "404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterIntake_GuardianWithChildren(t *testing.T) {
	svc := newTestService()
	in := &Intake{
		FirstName: "Anna",
		LastName:  "Berg",
		Email:     "anna@example.com",
		BirthDate: "1985-07-15",
		Children: []ChildIntake{
			{FirstName: "Ola", LastName: "Berg", BirthDate: "2016-06-15", Class: "3rd Grade A"},
		},
	}
	created, err := svc.RegisterIntake(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(created))
	}

	guardian := created[0]
	if guardian.ID != "3" {
		t.Errorf("expected next id 3, got %s", guardian.ID)
	}
	if guardian.Children == nil || *guardian.Children != 1 {
		t.Errorf("expected children count 1, got %v", guardian.Children)
	}
	if guardian.Age != 39 {
		t.Errorf("expected age 39, got %d", guardian.Age)
	}
	if err := guardian.Validate(); err != nil {
		t.Errorf("guardian row invalid: %v", err)
	}

	child := created[1]
	if child.Grade == nil || *child.Grade != "3rd Grade A" {
		t.Errorf("expected grade 3rd Grade A, got %v", child.Grade)
	}
	if child.Age != 8 {
		t.Errorf("expected age 8, got %d", child.Age)
	}
	if err := child.Validate(); err != nil {
		t.Errorf("child row invalid: %v", err)
	}

	d, err := svc.GetDetail(context.Background(), guardian.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Children) != 1 || d.Children[0].Name != "Ola Berg" {
		t.Errorf("expected linked child Ola Berg, got %+v", d.Children)
	}

	all, _ := svc.SearchPatients(context.Background(), "", "")
	if len(all) != 4 {
		t.Errorf("expected 4 patients after intake, got %d", len(all))
	}
}

func TestRegisterIntake_AdultIsPatient(t *testing.T) {
	svc := newTestService()
	created, err := svc.RegisterIntake(context.Background(), &Intake{FirstName: "Per", LastName: "Lund", AdultIsPatient: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 row, got %d", len(created))
	}
	if created[0].Children == nil || *created[0].Children != 0 {
		t.Errorf("expected children count 0, got %v", created[0].Children)
	}
}

func TestRegisterIntake_PresenceChecks(t *testing.T) {
	svc := newTestService()
	cases := map[string]*Intake{
		"missing first name": {LastName: "X", AdultIsPatient: true},
		"missing last name":  {FirstName: "X", AdultIsPatient: true},
		"no patient":         {FirstName: "X", LastName: "Y"},
		"child without class": {FirstName: "X", LastName: "Y", Children: []ChildIntake{
			{FirstName: "A", LastName: "B"},
		}},
		"bad birth date": {FirstName: "X", LastName: "Y", AdultIsPatient: true, BirthDate: "15/07/1985"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.RegisterIntake(context.Background(), in); !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
	all, _ := svc.SearchPatients(context.Background(), "", "")
	if len(all) != 2 {
		t.Errorf("rejected forms must not create rows, got %d patients", len(all))
	}
}

func TestListReturnsCopies(t *testing.T) {
	svc := newTestService()
	first, _ := svc.SearchPatients(context.Background(), "", "")
	first[0].Name = "Mutated"
	second, _ := svc.SearchPatients(context.Background(), "", "")
	if second[0].Name != "Jane Doe" {
		t.Errorf("repository leaked internal state: %s", second[0].Name)
	}
}
