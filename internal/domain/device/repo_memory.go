package device

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*Device
}

// NewMemoryRepo returns a repository that keeps devices in insertion order.
func NewMemoryRepo() DeviceRepository {
	return &memoryRepo{byID: make(map[string]*Device)}
}

func (r *memoryRepo) Create(_ context.Context, d *Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID] = d.clone()
	r.order = append(r.order, d.ID)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.clone(), nil
}

func (r *memoryRepo) List(_ context.Context) ([]*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].clone())
	}
	return out, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepo) Update(_ context.Context, id string, fn func(*Device) error) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := d.clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	r.byID[id] = next
	return next.clone(), nil
}
