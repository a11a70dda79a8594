package automation

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/clinicboard/clinicboard/internal/platform/search"
)

type Service struct {
	items []*Function
}

func NewService(items []*Function) *Service {
	cp := make([]*Function, len(items))
	for i, f := range items {
		v := *f
		cp[i] = &v
	}
	return &Service{items: cp}
}

func searchFields(f *Function) []string {
	return []string{f.Name, f.Description}
}

func (s *Service) Search(query, status string) ([]*Function, error) {
	if status != "" && !Status(status).Valid() {
		return nil, fmt.Errorf("%w: invalid status: %s", ErrValidation, status)
	}
	return search.Filter(s.items, query, searchFields, search.Facet[*Function]{
		Name:  "status",
		Value: status,
		Field: func(f *Function) string { return string(f.Status) },
	}), nil
}

func (s *Service) Get(id string) (*Function, error) {
	if i := search.IndexOf(s.items, id, func(f *Function) string { return f.ID }); i >= 0 {
		return s.items[i], nil
	}
	return nil, ErrNotFound
}

// Active returns the catalog functions whose id is in ids, in catalog order,
// reported with status ACTIVE. Unknown ids are ignored.
func (s *Service) Active(ids map[string]bool) []*Function {
	return lo.FilterMap(s.items, func(f *Function, _ int) (*Function, bool) {
		if !ids[f.ID] {
			return nil, false
		}
		v := *f
		v.Status = StatusActive
		return &v, true
	})
}
