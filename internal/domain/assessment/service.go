package assessment

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/clinicboard/clinicboard/internal/platform/search"
)

// Service serves the read-only assessment catalog.
type Service struct {
	items []*Assessment
}

func NewService(items []*Assessment) *Service {
	cp := make([]*Assessment, len(items))
	for i, a := range items {
		v := *a
		cp[i] = &v
	}
	return &Service{items: cp}
}

func searchFields(a *Assessment) []string {
	return []string{a.Title, a.Category, a.Description}
}

// Search applies the category and difficulty facets, then the free-text
// query over title, category and description. category may be AllCategories
// or empty to disable that facet.
func (s *Service) Search(query, category, difficulty string) ([]*Assessment, error) {
	if difficulty != "" && !Difficulty(difficulty).Valid() {
		return nil, fmt.Errorf("%w: invalid difficulty: %s", ErrValidation, difficulty)
	}
	if category == AllCategories {
		category = ""
	}
	return search.Filter(s.items, query, searchFields,
		search.Facet[*Assessment]{
			Name:  "category",
			Value: category,
			Field: func(a *Assessment) string { return a.Category },
		},
		search.Facet[*Assessment]{
			Name:  "difficulty",
			Value: difficulty,
			Field: func(a *Assessment) string { return string(a.Difficulty) },
		},
	), nil
}

func (s *Service) Get(id string) (*Assessment, error) {
	if i := search.IndexOf(s.items, id, func(a *Assessment) string { return a.ID }); i >= 0 {
		return s.items[i], nil
	}
	return nil, ErrNotFound
}

// Categories lists AllCategories followed by each distinct category in
// catalog order.
func (s *Service) Categories() []string {
	cats := lo.Uniq(lo.Map(s.items, func(a *Assessment, _ int) string { return a.Category }))
	return append([]string{AllCategories}, cats...)
}
