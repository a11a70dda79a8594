package partner

import (
	"context"
	"sync"
)

type PartnerRepository interface {
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, id string) (*Partner, error)
	List(ctx context.Context) ([]*Partner, error)
}

type memoryRepo struct {
	mu    sync.RWMutex
	items []*Partner
}

func NewMemoryRepo() PartnerRepository {
	return &memoryRepo{}
}

func (r *memoryRepo) Create(_ context.Context, p *Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items = append(r.items, &cp)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) List(_ context.Context) ([]*Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Partner, len(r.items))
	for i, p := range r.items {
		cp := *p
		out[i] = &cp
	}
	return out, nil
}
