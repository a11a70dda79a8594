package workspace

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func doRequest(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newTestServer(t *testing.T) *echo.Echo {
	e := echo.New()
	NewHandler(newTestService(t)).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func TestHandler_Flow(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/workspaces", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var w Workspace
	json.Unmarshal(rec.Body.Bytes(), &w)
	base := "/api/v1/workspaces/" + w.ID

	if rec := doRequest(t, e, http.MethodPut, base+"/selection", `{"id":"1"}`); rec.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodPut, base+"/search", `{"query":"JOHN"}`); rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodGet, base+"/view", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("view: expected 200, got %d", rec.Code)
	}
	var v struct {
		Total           int    `json:"total"`
		SelectedID      string `json:"selected_id"`
		SelectedVisible bool   `json:"selected_visible"`
	}
	json.Unmarshal(rec.Body.Bytes(), &v)
	if v.Total != 1 || v.SelectedID != "1" || v.SelectedVisible {
		t.Errorf("unexpected view %+v", v)
	}

	if rec := doRequest(t, e, http.MethodDelete, base+"/selection/patients", ""); rec.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodPut, base+"/theme", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"theme":"dark"`) {
		t.Fatalf("theme toggle: got %d %s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(t, e, http.MethodPost, base+"/functions/1/run", ""); rec.Code != http.StatusOK {
		t.Fatalf("run: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodGet, base+"/view", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestHandler_UnknownSection(t *testing.T) {
	e := newTestServer(t)
	rec := doRequest(t, e, http.MethodPost, "/api/v1/workspaces", "")
	var w Workspace
	json.Unmarshal(rec.Body.Bytes(), &w)

	rec = doRequest(t, e, http.MethodPut, "/api/v1/workspaces/"+w.ID+"/section", `{"section":"billing"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
