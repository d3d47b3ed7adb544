package types

// Company is an organisation Cadence schedules recurring contact with.
// Communications reference a company by ID; a company never embeds them.
type Company struct {
	ID              string   `json:"company_id"`
	Name            string   `json:"name"`
	Location        string   `json:"location"`
	LinkedInProfile string   `json:"linkedin_profile"`
	Emails          []string `json:"emails"`        // Non-empty, ordered.
	PhoneNumbers    []string `json:"phone_numbers"` // Non-empty, ordered.
	Comments        string   `json:"comments"`

	// CommunicationPeriodicity is the number of days after the most recent
	// communication before the next one is due. Must be positive.
	CommunicationPeriodicity int `json:"communication_periodicity"`
}

// DefaultPeriodicity is the periodicity offered for new companies.
const DefaultPeriodicity = 14
