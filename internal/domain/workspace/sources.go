package workspace

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/clinicboard/clinicboard/internal/domain/assessment"
	"github.com/clinicboard/clinicboard/internal/domain/automation"
	"github.com/clinicboard/clinicboard/internal/domain/device"
	"github.com/clinicboard/clinicboard/internal/domain/patient"
	"github.com/clinicboard/clinicboard/internal/domain/report"
)

// Query is the filter input of a section list.
type Query struct {
	Text     string
	Category string
}

// Listing is the visible list of a section, with ids parallel to items.
type Listing struct {
	IDs   []string
	Items []interface{}
}

// Source backs the list and detail panel of one section. Detail returns
// nil, nil for an unknown id.
type Source interface {
	Visible(ctx context.Context, q Query) (Listing, error)
	Detail(ctx context.Context, id string) (interface{}, error)
}

type listSource[T any] struct {
	search func(ctx context.Context, q Query) ([]T, error)
	key    func(T) string
	detail func(ctx context.Context, id string) (interface{}, error)
}

func (s listSource[T]) Visible(ctx context.Context, q Query) (Listing, error) {
	items, err := s.search(ctx, q)
	if err != nil {
		return Listing{}, err
	}
	return Listing{
		IDs:   lo.Map(items, func(item T, _ int) string { return s.key(item) }),
		Items: lo.ToAnySlice(items),
	}, nil
}

func (s listSource[T]) Detail(ctx context.Context, id string) (interface{}, error) {
	return s.detail(ctx, id)
}

func PatientSource(svc *patient.Service) Source {
	return listSource[*patient.Patient]{
		search: func(ctx context.Context, q Query) ([]*patient.Patient, error) {
			return svc.SearchPatients(ctx, q.Text, "")
		},
		key: func(p *patient.Patient) string { return p.ID },
		detail: func(ctx context.Context, id string) (interface{}, error) {
			d, err := svc.GetDetail(ctx, id)
			if errors.Is(err, patient.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return d, nil
		},
	}
}

func AssessmentSource(svc *assessment.Service) Source {
	return listSource[*assessment.Assessment]{
		search: func(_ context.Context, q Query) ([]*assessment.Assessment, error) {
			return svc.Search(q.Text, q.Category, "")
		},
		key: func(a *assessment.Assessment) string { return a.ID },
		detail: func(_ context.Context, id string) (interface{}, error) {
			a, err := svc.Get(id)
			if err != nil {
				return nil, nil
			}
			return a, nil
		},
	}
}

func ReportSource(svc *report.Service) Source {
	return listSource[*report.Report]{
		search: func(_ context.Context, q Query) ([]*report.Report, error) {
			return svc.Search(q.Text, "")
		},
		key: func(r *report.Report) string { return r.ID },
		detail: func(_ context.Context, id string) (interface{}, error) {
			r, err := svc.Get(id)
			if err != nil {
				return nil, nil
			}
			return r, nil
		},
	}
}

func FunctionSource(svc *automation.Service) Source {
	return listSource[*automation.Function]{
		search: func(_ context.Context, q Query) ([]*automation.Function, error) {
			return svc.Search(q.Text, "")
		},
		key: func(f *automation.Function) string { return f.ID },
		detail: func(_ context.Context, id string) (interface{}, error) {
			f, err := svc.Get(id)
			if err != nil {
				return nil, nil
			}
			return f, nil
		},
	}
}

func DeviceSource(svc *device.Service) Source {
	return listSource[*device.Device]{
		search: func(ctx context.Context, q Query) ([]*device.Device, error) {
			return svc.SearchDevices(ctx, q.Text, "", "")
		},
		key: func(d *device.Device) string { return d.ID },
		detail: func(ctx context.Context, id string) (interface{}, error) {
			d, err := svc.GetDevice(ctx, id)
			if errors.Is(err, device.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return d, nil
		},
	}
}
