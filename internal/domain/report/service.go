package report

import (
	"fmt"

	"github.com/clinicboard/clinicboard/internal/platform/search"
)

// Service serves the read-only reports table.
type Service struct {
	items []*Report
}

func NewService(items []*Report) *Service {
	cp := make([]*Report, len(items))
	for i, r := range items {
		v := *r
		v.Normalize()
		cp[i] = &v
	}
	return &Service{items: cp}
}

func searchFields(r *Report) []string {
	return []string{r.PatientName, r.ID, r.TestName}
}

// Search filters by patient name, report id or test name and, when status is
// non-empty, by exact status.
func (s *Service) Search(query, status string) ([]*Report, error) {
	if status != "" && Status(status) != StatusCompleted && Status(status) != StatusPendingReview {
		return nil, fmt.Errorf("%w: invalid status: %s", ErrValidation, status)
	}
	return search.Filter(s.items, query, searchFields, search.Facet[*Report]{
		Name:  "status",
		Value: status,
		Field: func(r *Report) string { return string(r.Status) },
	}), nil
}

func (s *Service) Get(id string) (*Report, error) {
	if i := search.IndexOf(s.items, id, func(r *Report) string { return r.ID }); i >= 0 {
		return s.items[i], nil
	}
	return nil, ErrNotFound
}
