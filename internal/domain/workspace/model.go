package workspace

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("workspace not found")
	ErrValidation = errors.New("validation failed")
)

// Section is a top-level area of the dashboard.
type Section string

const (
	SectionPatients  Section = "patients"
	SectionTests     Section = "tests"
	SectionReports   Section = "reports"
	SectionCalendar  Section = "calendar"
	SectionFunctions Section = "automated-functions"
	SectionCalibrate Section = "calibrate"
	SectionSettings  Section = "settings"
)

var Sections = []Section{
	SectionPatients, SectionTests, SectionReports, SectionCalendar,
	SectionFunctions, SectionCalibrate, SectionSettings,
}

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: unknown section %q", ErrValidation, s)
}

// carriesPatient reports whether a section can be opened from a patient's
// detail panel and keep that patient as display context.
func (s Section) carriesPatient() bool {
	return s == SectionTests || s == SectionFunctions
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: unknown theme %q", ErrValidation, s)
}

// DefaultCategory disables the assessment category facet.
const DefaultCategory = "All tests"

// Workspace is the UI state of one dashboard session. Its methods are the
// only way state changes; callers serialise access through the Store.
type Workspace struct {
	ID              string             `json:"id"`
	Section         Section            `json:"section"`
	Theme           Theme              `json:"theme"`
	Search          map[Section]string `json:"search"`
	Category        string             `json:"category"`
	Selection       map[Section]string `json:"selection"`
	PatientContext  map[Section]string `json:"patient_context"`
	ActiveFunctions map[string]bool    `json:"active_functions"`
	CreatedAt       time.Time          `json:"created_at"`
	LastSeen        time.Time          `json:"last_seen"`
}

// New returns a workspace on the patients section with the light theme.
func New(id string, now time.Time) *Workspace {
	return &Workspace{
		ID:              id,
		Section:         SectionPatients,
		Theme:           ThemeLight,
		Search:          map[Section]string{},
		Category:        DefaultCategory,
		Selection:       map[Section]string{},
		PatientContext:  map[Section]string{},
		ActiveFunctions: map[string]bool{},
		CreatedAt:       now,
		LastSeen:        now,
	}
}

func (w *Workspace) clone() *Workspace {
	cp := *w
	cp.Search = copyMap(w.Search)
	cp.Selection = copyMap(w.Selection)
	cp.PatientContext = copyMap(w.PatientContext)
	cp.ActiveFunctions = make(map[string]bool, len(w.ActiveFunctions))
	for k, v := range w.ActiveFunctions {
		cp.ActiveFunctions[k] = v
	}
	return &cp
}

func copyMap(m map[Section]string) map[Section]string {
	out := make(map[Section]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Navigate switches the active section. Moving to a different section
// clears every selection. A patient context survives only while its own
// section is the target.
func (w *Workspace) Navigate(to Section) {
	if to != w.Section {
		w.Selection = map[Section]string{}
	}
	for sec := range w.PatientContext {
		if sec != to {
			delete(w.PatientContext, sec)
		}
	}
	w.Section = to
}

// OpenFromPatient navigates to tests or automated-functions carrying
// patientID as display context. The target starts with no selection.
func (w *Workspace) OpenFromPatient(target Section, patientID string) error {
	if !target.carriesPatient() {
		return fmt.Errorf("%w: section %q cannot be opened from a patient", ErrValidation, target)
	}
	if strings.TrimSpace(patientID) == "" {
		return fmt.Errorf("%w: patient_id required", ErrValidation)
	}
	w.Navigate(target)
	w.PatientContext = map[Section]string{target: patientID}
	delete(w.Selection, target)
	return nil
}

// Select records id as the selection of section, replacing any previous
// one. The id does not have to be visible under the current filter.
func (w *Workspace) Select(section Section, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id required", ErrValidation)
	}
	w.Selection[section] = id
	return nil
}

func (w *Workspace) ClearSelection(section Section) {
	delete(w.Selection, section)
}

func (w *Workspace) Selected(section Section) (string, bool) {
	id, ok := w.Selection[section]
	return id, ok
}

func (w *Workspace) SetSearch(section Section, query string) {
	if query == "" {
		delete(w.Search, section)
		return
	}
	w.Search[section] = query
}

// SetCategory sets the assessment category facet. An empty name resets it
// to DefaultCategory.
func (w *Workspace) SetCategory(name string) {
	if name == "" {
		name = DefaultCategory
	}
	w.Category = name
}

func (w *Workspace) ToggleTheme() {
	if w.Theme == ThemeDark {
		w.Theme = ThemeLight
		return
	}
	w.Theme = ThemeDark
}

func (w *Workspace) SetTheme(t Theme) {
	w.Theme = t
}

// RunFunction adds a function to the active set and selects it.
func (w *Workspace) RunFunction(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: function id required", ErrValidation)
	}
	w.ActiveFunctions[id] = true
	w.Selection[SectionFunctions] = id
	return nil
}
