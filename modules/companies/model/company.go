package model

import "time"

// Company is the recruiter directory entry a JobListing.CompanyID may
// reference. UserID tracks which operator registered it; end users never
// see or own a company row.
type Company struct {
	ID        string
	UserID    string
	Name      string
	Website   *string
	Location  *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyDTO represents company data transfer object with enriched fields
type CompanyDTO struct {
	ID                      string     `json:"id"`
	Name                    string     `json:"name"`
	Website                 *string    `json:"website,omitempty"`
	Location                *string    `json:"location,omitempty"`
	Notes                   *string    `json:"notes,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	ApplicationsCount       int        `json:"applications_count"`
	ActiveApplicationsCount int        `json:"active_applications_count"`
	DerivedStatus           string     `json:"derived_status"`
	LastActivityAt          *time.Time `json:"last_activity_at,omitempty"`
}

// CompanyStatus represents the derived status of a company
type CompanyStatus string

const (
	CompanyStatusIdle   CompanyStatus = "idle"   // No applications against any of its listings
	CompanyStatusActive CompanyStatus = "active" // At least one application against its listings
)

// ToDTO converts Company to CompanyDTO
func (c *Company) ToDTO() *CompanyDTO {
	return &CompanyDTO{
		ID:        c.ID,
		Name:      c.Name,
		Website:   c.Website,
		Location:  c.Location,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
