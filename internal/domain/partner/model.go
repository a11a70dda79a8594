package partner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("partner not found")
	ErrValidation = errors.New("validation failed")
)

// Partner is an external collaborator, either a person or a company.
type Partner struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Title       string    `json:"title,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	IsCompany   bool      `json:"is_company"`
	CompanyName string    `json:"company_name,omitempty"`
	Address     string    `json:"address,omitempty"`
	OrgNumber   string    `json:"org_number,omitempty"`
	VATNumber   string    `json:"vat_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Intake is the "Add Partner" form.
type Intake struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	PhoneNumber string `json:"phone_number"`
	IsCompany   bool   `json:"is_company"`
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	OrgNumber   string `json:"org_number"`
	VATNumber   string `json:"vat_number"`
}

func (in *Intake) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"email", in.Email},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if in.IsCompany && strings.TrimSpace(in.CompanyName) == "" {
		missing = append(missing, "company_name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// toPartner drops the company fields unless the intake is for a company.
func (in *Intake) toPartner(id string, now time.Time) *Partner {
	p := &Partner{
		ID:          id,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.TrimSpace(in.Email),
		Title:       in.Title,
		PhoneNumber: in.PhoneNumber,
		IsCompany:   in.IsCompany,
		CreatedAt:   now,
	}
	if in.IsCompany {
		p.CompanyName = strings.TrimSpace(in.CompanyName)
		p.Address = in.Address
		p.OrgNumber = in.OrgNumber
		p.VATNumber = in.VATNumber
	}
	return p
}
