package patient

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// memoryRepo keeps patients in seed order. Nothing survives a restart.
type memoryRepo struct {
	mu       sync.RWMutex
	patients []*Patient
	byID     map[string]*Patient
	children []Child
	tests    []CompletedTest
	nextID   int
}

// NewMemoryRepo returns a repository pre-loaded with the given seed rows.
func NewMemoryRepo(patients []*Patient, children []Child, tests []CompletedTest) PatientRepository {
	r := &memoryRepo{byID: make(map[string]*Patient, len(patients))}
	for _, p := range patients {
		cp := p.clone()
		r.patients = append(r.patients, cp)
		r.byID[cp.ID] = cp
		if n, err := strconv.Atoi(cp.ID); err == nil && n >= r.nextID {
			r.nextID = n
		}
	}
	r.children = append(r.children, children...)
	r.tests = append(r.tests, tests...)
	return r
}

func (r *memoryRepo) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		r.nextID++
		p.ID = strconv.Itoa(r.nextID)
	}
	if _, ok := r.byID[p.ID]; ok {
		return fmt.Errorf("patient %s already exists", p.ID)
	}
	cp := p.clone()
	r.patients = append(r.patients, cp)
	r.byID[cp.ID] = cp
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (r *memoryRepo) List(_ context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Patient, len(r.patients))
	for i, p := range r.patients {
		out[i] = p.clone()
	}
	return out, nil
}

func (r *memoryRepo) AddChild(_ context.Context, c Child) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = strconv.Itoa(len(r.children) + 1)
	}
	r.children = append(r.children, c)
	return nil
}

func (r *memoryRepo) ListChildren(_ context.Context, patientID string) ([]Child, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Child{}
	for _, c := range r.children {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListTests(_ context.Context, patientID string) ([]CompletedTest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []CompletedTest{}
	for _, t := range r.tests {
		if t.PatientID == patientID {
			out = append(out, t)
		}
	}
	return out, nil
}
