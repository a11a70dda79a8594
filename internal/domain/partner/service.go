package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/internal/platform/search"
)

type Service struct {
	repo PartnerRepository
	now  func() time.Time
}

func NewService(repo PartnerRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreatePartner(ctx context.Context, in *Intake) (*Partner, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := in.toPartner(uuid.New().String(), s.now().UTC())
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create partner: %w", err)
	}
	return p, nil
}

func (s *Service) GetPartner(ctx context.Context, id string) (*Partner, error) {
	return s.repo.GetByID(ctx, id)
}

func searchFields(p *Partner) []string {
	return []string{p.FirstName, p.LastName, p.Email, p.CompanyName}
}

func (s *Service) SearchPartners(ctx context.Context, query string) ([]*Partner, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return search.Filter(items, query, searchFields), nil
}
