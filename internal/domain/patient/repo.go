package patient

import "context"

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	AddChild(ctx context.Context, c Child) error
	ListChildren(ctx context.Context, patientID string) ([]Child, error)
	ListTests(ctx context.Context, patientID string) ([]CompletedTest, error)
}
