// Package sandbox loads the reference catalog the dashboard serves: the
// patients, assessments, reports and automated functions every session
// starts from. The default catalog is embedded in the binary.
package sandbox

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clinicboard/clinicboard/internal/domain/assessment"
	"github.com/clinicboard/clinicboard/internal/domain/automation"
	"github.com/clinicboard/clinicboard/internal/domain/patient"
	"github.com/clinicboard/clinicboard/internal/domain/report"
)

//go:embed seed.yaml
var embeddedSeed []byte

// Dataset is the full seed catalog.
type Dataset struct {
	Patients       []*patient.Patient       `yaml:"patients" json:"patients"`
	Children       []patient.Child          `yaml:"children" json:"children"`
	CompletedTests []patient.CompletedTest  `yaml:"completed_tests" json:"completed_tests"`
	Assessments    []*assessment.Assessment `yaml:"assessments" json:"assessments"`
	Reports        []*report.Report         `yaml:"reports" json:"reports"`
	Functions      []*automation.Function   `yaml:"functions" json:"functions"`
}

// Summary counts the records of each kind.
type Summary struct {
	Patients       int `json:"patients"`
	Children       int `json:"children"`
	CompletedTests int `json:"completed_tests"`
	Assessments    int `json:"assessments"`
	Reports        int `json:"reports"`
	Functions      int `json:"functions"`
}

func (d *Dataset) Summary() Summary {
	return Summary{
		Patients:       len(d.Patients),
		Children:       len(d.Children),
		CompletedTests: len(d.CompletedTests),
		Assessments:    len(d.Assessments),
		Reports:        len(d.Reports),
		Functions:      len(d.Functions),
	}
}

// Default returns the embedded catalog.
func Default() (*Dataset, error) {
	return Parse(embeddedSeed)
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a YAML catalog. Unknown keys are rejected.
// Report statuses are derived from their scores.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for _, r := range ds.Reports {
		r.Normalize()
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Marshal encodes the catalog back to YAML.
func (d *Dataset) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks every record and that ids are unique within each list and
// that children and completed tests point at a known patient.
func (d *Dataset) Validate() error {
	var errs []error

	patients := map[string]bool{}
	for _, p := range d.Patients {
		errs = appendErr(errs, p.Validate())
		errs = appendErr(errs, unique(patients, "patient", p.ID))
	}
	children := map[string]bool{}
	for _, c := range d.Children {
		errs = appendErr(errs, unique(children, "child", c.ID))
		if !patients[c.PatientID] {
			errs = append(errs, fmt.Errorf("child %s: unknown patient %q", c.ID, c.PatientID))
		}
	}
	tests := map[string]bool{}
	for _, t := range d.CompletedTests {
		errs = appendErr(errs, unique(tests, "completed test", t.ID))
		if !patients[t.PatientID] {
			errs = append(errs, fmt.Errorf("completed test %s: unknown patient %q", t.ID, t.PatientID))
		}
	}
	assessments := map[string]bool{}
	for _, a := range d.Assessments {
		errs = appendErr(errs, a.Validate())
		errs = appendErr(errs, unique(assessments, "assessment", a.ID))
	}
	reports := map[string]bool{}
	for _, r := range d.Reports {
		errs = appendErr(errs, r.Validate())
		errs = appendErr(errs, unique(reports, "report", r.ID))
	}
	functions := map[string]bool{}
	for _, f := range d.Functions {
		errs = appendErr(errs, f.Validate())
		errs = appendErr(errs, unique(functions, "function", f.ID))
	}
	return errors.Join(errs...)
}

func unique(seen map[string]bool, kind, id string) error {
	if seen[id] {
		return fmt.Errorf("duplicate %s id %q", kind, id)
	}
	seen[id] = true
	return nil
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}
