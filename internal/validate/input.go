package validate

import (
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// CompanyInput is the data entered for a company.
type CompanyInput struct {
	Name            string   `json:"name" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	LinkedInProfile string   `json:"linkedin_profile" validate:"required,url"`
	Emails          []string `json:"emails" validate:"min=1,dive,required,email"`
	PhoneNumbers    []string `json:"phone_numbers" validate:"min=1,dive,required,phone"`
	Comments        string   `json:"comments"`
	Periodicity     int      `json:"communication_periodicity" validate:"gte=1"`
}

// Company validates in and builds a company with the given id. Text fields
// are trimmed, emails lower-cased, and phone numbers normalised to E.164.
func (val *Validator) Company(id string, in CompanyInput) (types.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.LinkedInProfile = strings.TrimSpace(in.LinkedInProfile)
	in.Emails = trimAll(in.Emails)
	in.PhoneNumbers = trimAll(in.PhoneNumbers)

	if err := val.check(in); err != nil {
		return types.Company{}, err
	}

	emails := make([]string, len(in.Emails))
	for i, e := range in.Emails {
		emails[i] = strings.ToLower(e)
	}
	phones := make([]string, len(in.PhoneNumbers))
	for i, p := range in.PhoneNumbers {
		phones[i], _ = normalizePhone(p, val.region)
	}

	return types.Company{
		ID:                       id,
		Name:                     in.Name,
		Location:                 in.Location,
		LinkedInProfile:          in.LinkedInProfile,
		Emails:                   emails,
		PhoneNumbers:             phones,
		Comments:                 strings.TrimSpace(in.Comments),
		CommunicationPeriodicity: in.Periodicity,
	}, nil
}

// CompanyInputFrom returns the editable fields of c.
func CompanyInputFrom(c types.Company) CompanyInput {
	return CompanyInput{
		Name:            c.Name,
		Location:        c.Location,
		LinkedInProfile: c.LinkedInProfile,
		Emails:          slices.Clone(c.Emails),
		PhoneNumbers:    slices.Clone(c.PhoneNumbers),
		Comments:        c.Comments,
		Periodicity:     c.CommunicationPeriodicity,
	}
}

// MethodInput is the data entered for a communication method.
type MethodInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Sequence    int    `json:"sequence" validate:"gte=1"`
	Mandatory   bool   `json:"mandatory"`
}

// Method validates in and builds a communication method with the given id.
func (val *Validator) Method(id string, in MethodInput) (types.CommunicationMethod, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := val.check(in); err != nil {
		return types.CommunicationMethod{}, err
	}
	return types.CommunicationMethod{
		ID:          id,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Sequence:    in.Sequence,
		Mandatory:   in.Mandatory,
	}, nil
}

// MethodInputFrom returns the editable fields of m.
func MethodInputFrom(m types.CommunicationMethod) MethodInput {
	return MethodInput{
		Name:        m.Name,
		Description: m.Description,
		Sequence:    m.Sequence,
		Mandatory:   m.Mandatory,
	}
}

// CommunicationInput is the data entered when logging a communication.
type CommunicationInput struct {
	CompanyID string    `json:"company" validate:"required"`
	MethodID  string    `json:"method" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Notes     string    `json:"notes"`
}

// Communication validates in against snap and builds a communication with the
// given id. The company and method must exist in snap; the date is truncated
// to its calendar day.
func (val *Validator) Communication(id string, in CommunicationInput, snap types.Snapshot) (types.Communication, error) {
	if err := val.check(in); err != nil {
		return types.Communication{}, err
	}
	if !slices.ContainsFunc(snap.Companies, func(c types.Company) bool { return c.ID == in.CompanyID }) {
		return types.Communication{}, &Error{Field: "Company", Message: "does not exist"}
	}
	if !slices.ContainsFunc(snap.CommunicationMethods, func(m types.CommunicationMethod) bool { return m.ID == in.MethodID }) {
		return types.Communication{}, &Error{Field: "Method", Message: "does not exist"}
	}
	return types.Communication{
		ID:        id,
		CompanyID: in.CompanyID,
		MethodID:  in.MethodID,
		Date:      types.Day(in.Date),
		Notes:     strings.TrimSpace(in.Notes),
	}, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
