package sandbox

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/internal/domain/assessment"
	"github.com/clinicboard/clinicboard/internal/domain/report"
)

func TestDefault_Counts(t *testing.T) {
	ds, err := Default()
	if err != nil {
		t.Fatalf("embedded seed invalid: %v", err)
	}
	want := Summary{Patients: 20, Children: 2, CompletedTests: 2, Assessments: 8, Reports: 23, Functions: 18}
	if got := ds.Summary(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDefault_ReportStatusDerived(t *testing.T) {
	ds, _ := Default()
	pending := 0
	for _, r := range ds.Reports {
		if r.Status != report.StatusFor(r.Score) {
			t.Errorf("report %s: status %s does not match score %d", r.ID, r.Status, r.Score)
		}
		if r.Status == report.StatusPendingReview {
			pending++
		}
	}
	if pending != 4 {
		t.Errorf("expected 4 pending reports, got %d", pending)
	}
}

func TestDefault_ReadingCategory(t *testing.T) {
	ds, _ := Default()
	svc := assessment.NewService(ds.Assessments)
	got, err := svc.Search("", "Reading", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make([]string, len(got))
	for i, a := range got {
		if a.Category != "Reading" {
			t.Errorf("assessment %s has category %s", a.ID, a.Category)
		}
		ids[i] = a.ID
	}
	if !reflect.DeepEqual(ids, []string{"2", "5", "8"}) {
		t.Errorf("expected [2 5 8], got %v", ids)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	ds, _ := Default()
	data, err := ds.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "status: PENDING REVIEW") {
		t.Error("expected derived report status to be omitted")
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(back, ds) {
		t.Error("expected round trip to preserve the catalog")
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key": "patients: []\nwidgets: []\n",
		"duplicate id": `
assessments:
  - {id: "1", title: A, category: Reading, description: x, duration: 5, difficulty: EASY}
  - {id: "1", title: B, category: Reading, description: y, duration: 5, difficulty: EASY}
`,
		"orphan child": `
children:
  - {id: "1", name: Jill, age: 9, class: 4A, patient_id: "7"}
`,
		"grade and children": `
patients:
  - {id: "1", name: Jane, age: 40, grade: 4A, children: 2, last_test_date: "2024-01-01", status: ACTIVE}
`,
		"score out of range": `
reports:
  - {id: R1, patient_name: A, patient_id: "1", test_name: T, date: "2024-01-01", score: 140}
`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(src)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	src := `
functions:
  - {id: "1", name: Heatmaps, description: Generate heatmaps, status: IDLE}
`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Functions) != 1 || len(ds.Patients) != 0 {
		t.Errorf("unexpected catalog %+v", ds.Summary())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	def, err := Load("")
	if err != nil || len(def.Patients) != 20 {
		t.Errorf("expected embedded catalog for empty path, got %v", err)
	}
}

func TestHandler(t *testing.T) {
	ds, _ := Default()
	e := echo.New()
	NewHandler(ds).RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sandbox/summary", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"reports":23`) {
		t.Errorf("unexpected summary response %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sandbox/seed", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := Parse(rec.Body.Bytes()); err != nil {
		t.Errorf("exported seed does not parse: %v", err)
	}
}
