package model

import "time"

// Category is one of the broker's closed set of job categories, backed by
// the tag library's keyword-scoring tables.
type Category string

const (
	CategoryAdminOffice     Category = "admin_office"
	CategoryAccountingFin   Category = "accounting_finance"
	CategoryCustomerService Category = "customer_service"
	CategoryDriving         Category = "driving_logistics"
	CategoryEducation       Category = "education"
	CategoryEngineering     Category = "engineering"
	CategoryHealthcare      Category = "healthcare"
	CategoryHospitality     Category = "hospitality"
	CategoryHR              Category = "human_resources"
	CategoryIT              Category = "it_software"
	CategoryLegal           Category = "legal"
	CategoryManufacturing   Category = "manufacturing"
	CategoryMarketing       Category = "marketing"
	CategoryMedia           Category = "media_creative"
	CategoryNGO             Category = "ngo_development"
	CategoryOilGas          Category = "oil_gas"
	CategorySales           Category = "sales"
	CategorySecurity        Category = "security"
	CategoryOther           Category = "other"
)

// AllCategories is the closed set used to validate a category string and to
// render the WhatsApp category picker list.
var AllCategories = []Category{
	CategoryAdminOffice, CategoryAccountingFin, CategoryCustomerService,
	CategoryDriving, CategoryEducation, CategoryEngineering, CategoryHealthcare,
	CategoryHospitality, CategoryHR, CategoryIT, CategoryLegal,
	CategoryManufacturing, CategoryMarketing, CategoryMedia, CategoryNGO,
	CategoryOilGas, CategorySales, CategorySecurity, CategoryOther,
}

// IsValidCategory reports whether s names one of the closed categories.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// JobListing is a single scraped or recruiter-submitted catalog entry. Unlike
// the teacher's personal, user-owned Job row, this is a global row: no
// owning end user, only an optional source attribution.
type JobListing struct {
	ID              string
	Title           string
	CompanyID       *string
	Location        string
	State           string
	IsRemote        bool
	Email           string
	Description     string
	Requirements    *string
	ExperienceLevel string
	Category        Category
	Source          string
	ExternalID      *string
	ScrapedAt       *time.Time
	ExpiresAt       *time.Time
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JobListingDTO is the API/conversational-flow facing view, enriched with
// the company name by the repository join.
type JobListingDTO struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	CompanyID       *string    `json:"company_id,omitempty"`
	CompanyName     *string    `json:"company_name,omitempty"`
	Location        string     `json:"location"`
	State           string     `json:"state"`
	IsRemote        bool       `json:"is_remote"`
	Description     string     `json:"description"`
	Requirements    *string    `json:"requirements,omitempty"`
	ExperienceLevel string     `json:"experience_level"`
	Category        Category   `json:"category"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToDTO converts a JobListing to its DTO. CompanyName is set separately by
// the repository after its join.
func (j *JobListing) ToDTO() *JobListingDTO {
	return &JobListingDTO{
		ID:              j.ID,
		Title:           j.Title,
		CompanyID:       j.CompanyID,
		Location:        j.Location,
		State:           j.State,
		IsRemote:        j.IsRemote,
		Description:     j.Description,
		Requirements:    j.Requirements,
		ExperienceLevel: j.ExperienceLevel,
		Category:        j.Category,
		Source:          j.Source,
		Status:          j.Status,
		ExpiresAt:       j.ExpiresAt,
		CreatedAt:       j.CreatedAt,
	}
}

// RecruiterEmail returns where an application for this listing should be
// sent: the listing's own contact address (Email). The company record is
// not consulted.
func (j *JobListing) RecruiterEmail() string {
	return j.Email
}
