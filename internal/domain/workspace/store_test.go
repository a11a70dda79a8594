package workspace

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	s := NewStore(time.Minute, zerolog.Nop())
	s.Create(newWorkspace())

	_, err := s.Update("ws-1", func(w *Workspace) error {
		w.Navigate(SectionReports)
		return ErrValidation
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	w, _ := s.Get("ws-1")
	if w.Section != SectionPatients {
		t.Errorf("expected unchanged section, got %s", w.Section)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore(time.Minute, zerolog.Nop())
	s.Create(newWorkspace())
	w, _ := s.Get("ws-1")
	w.Select(SectionPatients, "1")

	again, _ := s.Get("ws-1")
	if _, ok := again.Selected(SectionPatients); ok {
		t.Error("expected stored workspace unaffected by caller mutation")
	}
}

func TestStore_NotFound(t *testing.T) {
	s := NewStore(time.Minute, zerolog.Nop())
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Update("nope", func(*Workspace) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(30*time.Minute, zerolog.Nop())
	s.nowFunc = func() time.Time { return now }

	idle := New("idle", now.Add(-time.Hour))
	fresh := New("fresh", now.Add(-time.Minute))
	s.Create(idle)
	s.Create(fresh)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, err := s.Get("idle"); !errors.Is(err, ErrNotFound) {
		t.Error("expected idle workspace evicted")
	}
	if _, err := s.Get("fresh"); err != nil {
		t.Error("expected fresh workspace kept")
	}
}

func TestStore_UpdateTouchesLastSeen(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(30*time.Minute, zerolog.Nop())
	s.nowFunc = func() time.Time { return now }
	s.Create(New("ws", now.Add(-time.Hour)))

	s.Update("ws", func(*Workspace) error { return nil })
	if s.Sweep() != 0 {
		t.Error("expected touched workspace to survive sweep")
	}
}

func TestStore_StartStop(t *testing.T) {
	s := NewStore(time.Nanosecond, zerolog.Nop())
	s.Create(New("ws", time.Now().Add(-time.Hour)))
	s.Start(time.Millisecond)
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for s.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Len() != 0 {
		t.Fatal("expected background sweep to evict the workspace")
	}
	s.Stop()
}
