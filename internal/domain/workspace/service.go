package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/clinicboard/clinicboard/internal/domain/automation"
)

// ActiveLister resolves a set of function ids to catalog entries.
type ActiveLister interface {
	Active(ids map[string]bool) []*automation.Function
}

// View is everything the dashboard needs to render the active section.
type View struct {
	WorkspaceID     string                 `json:"workspace_id"`
	Section         Section                `json:"section"`
	Theme           Theme                  `json:"theme"`
	Query           string                 `json:"query"`
	Category        string                 `json:"category,omitempty"`
	Items           []interface{}          `json:"items"`
	Total           int                    `json:"total"`
	SelectedID      string                 `json:"selected_id,omitempty"`
	SelectedVisible bool                   `json:"selected_visible"`
	Selected        interface{}            `json:"selected,omitempty"`
	PatientContext  interface{}            `json:"patient_context,omitempty"`
	ActiveFunctions []*automation.Function `json:"active_functions"`
}

type Service struct {
	store     *Store
	sources   map[Section]Source
	functions ActiveLister
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the workspace state machine to the section sources.
// Sections without a source render an empty list.
func NewService(store *Store, sources map[Section]Source, functions ActiveLister, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		sources:   sources,
		functions: functions,
		logger:    logger.With().Str("component", "workspaces").Logger(),
		now:       time.Now,
	}
}

func (s *Service) Create(_ context.Context) (*Workspace, error) {
	w := New(uuid.New().String(), s.now().UTC())
	s.store.Create(w)
	s.logger.Debug().Str("workspace_id", w.ID).Msg("workspace created")
	return w, nil
}

func (s *Service) Get(_ context.Context, id string) (*Workspace, error) {
	return s.store.Get(id)
}

func (s *Service) Delete(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Debug().Str("workspace_id", id).Msg("workspace deleted")
	return nil
}

func (s *Service) Navigate(_ context.Context, id, section string) (*Workspace, error) {
	sec, err := ParseSection(section)
	if err != nil {
		return nil, err
	}
	return s.store.Update(id, func(w *Workspace) error {
		w.Navigate(sec)
		return nil
	})
}

// OpenFromPatient opens tests or automated-functions for a known patient.
func (s *Service) OpenFromPatient(ctx context.Context, id, target, patientID string) (*Workspace, error) {
	sec, err := ParseSection(target)
	if err != nil {
		return nil, err
	}
	if patientID != "" {
		if err := s.requireItem(ctx, SectionPatients, patientID); err != nil {
			return nil, err
		}
	}
	return s.store.Update(id, func(w *Workspace) error {
		return w.OpenFromPatient(sec, patientID)
	})
}

// SetSearch stores the search text of section, or of the active section
// when section is empty.
func (s *Service) SetSearch(_ context.Context, id, section, query string) (*Workspace, error) {
	sec, err := s.optionalSection(section)
	if err != nil {
		return nil, err
	}
	return s.store.Update(id, func(w *Workspace) error {
		if sec == "" {
			w.SetSearch(w.Section, query)
		} else {
			w.SetSearch(sec, query)
		}
		return nil
	})
}

func (s *Service) SetCategory(_ context.Context, id, category string) (*Workspace, error) {
	return s.store.Update(id, func(w *Workspace) error {
		w.SetCategory(category)
		return nil
	})
}

// Select records a selection in section, or in the active section when
// section is empty.
func (s *Service) Select(_ context.Context, id, section, itemID string) (*Workspace, error) {
	sec, err := s.optionalSection(section)
	if err != nil {
		return nil, err
	}
	return s.store.Update(id, func(w *Workspace) error {
		if sec == "" {
			return w.Select(w.Section, itemID)
		}
		return w.Select(sec, itemID)
	})
}

func (s *Service) ClearSelection(_ context.Context, id, section string) (*Workspace, error) {
	sec, err := ParseSection(section)
	if err != nil {
		return nil, err
	}
	return s.store.Update(id, func(w *Workspace) error {
		w.ClearSelection(sec)
		return nil
	})
}

// SetTheme sets the theme, or toggles it when mode is empty.
func (s *Service) SetTheme(_ context.Context, id, mode string) (*Workspace, error) {
	if mode == "" {
		return s.store.Update(id, func(w *Workspace) error {
			w.ToggleTheme()
			return nil
		})
	}
	t, err := ParseTheme(mode)
	if err != nil {
		return nil, err
	}
	return s.store.Update(id, func(w *Workspace) error {
		w.SetTheme(t)
		return nil
	})
}

func (s *Service) RunFunction(ctx context.Context, id, functionID string) (*Workspace, error) {
	if err := s.requireItem(ctx, SectionFunctions, functionID); err != nil {
		return nil, err
	}
	w, err := s.store.Update(id, func(w *Workspace) error {
		return w.RunFunction(functionID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("workspace_id", id).Str("function_id", functionID).Msg("function started")
	return w, nil
}

// View renders the active section: its filtered list, the selection and
// whether the selection is visible under the current filter.
func (s *Service) View(ctx context.Context, id string) (*View, error) {
	w, err := s.store.Update(id, func(*Workspace) error { return nil })
	if err != nil {
		return nil, err
	}

	v := &View{
		WorkspaceID:     w.ID,
		Section:         w.Section,
		Theme:           w.Theme,
		Query:           w.Search[w.Section],
		Items:           []interface{}{},
		ActiveFunctions: []*automation.Function{},
	}
	if s.functions != nil {
		v.ActiveFunctions = s.functions.Active(w.ActiveFunctions)
	}

	q := Query{Text: v.Query}
	if w.Section == SectionTests {
		q.Category = w.Category
		v.Category = w.Category
	}

	if src, ok := s.sources[w.Section]; ok {
		listing, err := src.Visible(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", w.Section, err)
		}
		v.Items = listing.Items
		v.Total = len(listing.Items)

		if sel, ok := w.Selected(w.Section); ok {
			v.SelectedID = sel
			v.SelectedVisible = lo.Contains(listing.IDs, sel)
			if v.Selected, err = src.Detail(ctx, sel); err != nil {
				return nil, fmt.Errorf("detail %s: %w", sel, err)
			}
		}
	}

	if pid, ok := w.PatientContext[w.Section]; ok {
		if src, ok := s.sources[SectionPatients]; ok {
			if v.PatientContext, err = src.Detail(ctx, pid); err != nil {
				return nil, fmt.Errorf("patient context %s: %w", pid, err)
			}
		}
	}
	return v, nil
}

func (s *Service) optionalSection(section string) (Section, error) {
	if section == "" {
		return "", nil
	}
	return ParseSection(section)
}

func (s *Service) requireItem(ctx context.Context, section Section, itemID string) error {
	if itemID == "" {
		return fmt.Errorf("%w: %s id required", ErrValidation, section)
	}
	src, ok := s.sources[section]
	if !ok {
		return nil
	}
	item, err := src.Detail(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: unknown %s id %q", ErrValidation, section, itemID)
	}
	return nil
}
