package automation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"
)

func testFunctions() []*Function {
	return []*Function{
		{ID: "1", Name: "Auto identify lines", Description: "Automatically identifies lines in gaze data", Status: StatusIdle},
		{ID: "2", Name: "Load audio gazes", Description: "Load and process audio gaze data", Status: StatusIdle},
		{ID: "3", Name: "Generate heatmaps", Description: "Create visual heatmaps from eye tracking data", Status: StatusScheduled},
	}
}

func functionIDs(fs []*Function) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	svc := NewService(testFunctions())
	got, err := svc.Search("GAZE", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(functionIDs(got), []string{"1", "2"}) {
		t.Errorf("expected [1 2], got %v", functionIDs(got))
	}

	got, _ = svc.Search("", string(StatusScheduled))
	if !reflect.DeepEqual(functionIDs(got), []string{"3"}) {
		t.Errorf("expected [3], got %v", functionIDs(got))
	}
}

func TestSearch_InvalidStatus(t *testing.T) {
	svc := NewService(testFunctions())
	if _, err := svc.Search("", "RUNNING"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestActive_CatalogOrder(t *testing.T) {
	svc := NewService(testFunctions())
	got := svc.Active(map[string]bool{"3": true, "1": true, "99": true})
	if !reflect.DeepEqual(functionIDs(got), []string{"1", "3"}) {
		t.Fatalf("expected [1 3], got %v", functionIDs(got))
	}
	for _, f := range got {
		if f.Status != StatusActive {
			t.Errorf("expected ACTIVE, got %s", f.Status)
		}
	}
	if f, _ := svc.Get("1"); f.Status != StatusIdle {
		t.Errorf("expected catalog entry to stay IDLE, got %s", f.Status)
	}
}

func TestActive_Empty(t *testing.T) {
	svc := NewService(testFunctions())
	got := svc.Active(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestGetFunction_NotFound(t *testing.T) {
	h := NewHandler(NewService(testFunctions()))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	err := h.GetFunction(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}
