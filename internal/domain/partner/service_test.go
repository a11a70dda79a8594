package partner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestCreatePartner_Person(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p, err := svc.CreatePartner(context.Background(), &Intake{
		FirstName:   " Anna ",
		LastName:    "Berg",
		Email:       "anna@example.com",
		CompanyName: "ignored",
		OrgNumber:   "556677-8899",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Error("expected generated id")
	}
	if p.FirstName != "Anna" {
		t.Errorf("expected trimmed first name, got %q", p.FirstName)
	}
	if p.CompanyName != "" || p.OrgNumber != "" {
		t.Errorf("expected company fields dropped for a person, got %+v", p)
	}
}

func TestCreatePartner_Company(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p, err := svc.CreatePartner(context.Background(), &Intake{
		FirstName:   "Erik",
		LastName:    "Lund",
		Email:       "erik@optik.se",
		IsCompany:   true,
		CompanyName: "Lund Optik AB",
		VATNumber:   "SE556677889901",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CompanyName != "Lund Optik AB" || p.VATNumber != "SE556677889901" {
		t.Errorf("expected company fields kept, got %+v", p)
	}
}

func TestCreatePartner_PresenceCheck(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	cases := map[string]Intake{
		"missing email":        {FirstName: "A", LastName: "B"},
		"missing last name":    {FirstName: "A", Email: "a@b.c"},
		"company without name": {FirstName: "A", LastName: "B", Email: "a@b.c", IsCompany: true},
	}
	for name, in := range cases {
		in := in
		t.Run(name, func(t *testing.T) {
			if _, err := svc.CreatePartner(context.Background(), &in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
	all, _ := svc.SearchPartners(context.Background(), "")
	if len(all) != 0 {
		t.Errorf("expected nothing stored, got %d", len(all))
	}
}

func TestSearchPartners(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	svc.CreatePartner(ctx, &Intake{FirstName: "Anna", LastName: "Berg", Email: "anna@example.com"})
	svc.CreatePartner(ctx, &Intake{FirstName: "Erik", LastName: "Lund", Email: "erik@optik.se", IsCompany: true, CompanyName: "Lund Optik AB"})

	got, err := svc.SearchPartners(ctx, "OPTIK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Erik" {
		t.Errorf("expected Erik, got %+v", got)
	}
	got, _ = svc.SearchPartners(ctx, "")
	if len(got) != 2 || got[0].FirstName != "Anna" {
		t.Errorf("expected both partners in insertion order, got %+v", got)
	}
}

func TestCreatePartnerHandler(t *testing.T) {
	h := NewHandler(NewService(NewMemoryRepo()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"first_name":"Anna","last_name":"Berg","email":"anna@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreatePartner(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"first_name":"Anna"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	err := h.CreatePartner(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
