package model

// CreateJobListingRequest is used by the job listing HTTP handler and the
// recruiter-direct job-posting webhook (C10).
type CreateJobListingRequest struct {
	Title           string  `json:"title" binding:"required,min=1,max=255"`
	CompanyID       *string `json:"company_id,omitempty"`
	Location        string  `json:"location" binding:"required"`
	State           string  `json:"state" binding:"required"`
	IsRemote        bool    `json:"is_remote"`
	Email           string  `json:"email" binding:"required,email"`
	Description     string  `json:"description" binding:"required"`
	Requirements    *string `json:"requirements,omitempty"`
	ExperienceLevel string  `json:"experience_level"`
	Category        string  `json:"category" binding:"required"`
	Source          string  `json:"source"`
	ExternalID      *string `json:"external_id,omitempty"`
}

// SearchJobListingsRequest describes the conversational and HTTP search
// predicates (C9/C10).
type SearchJobListingsRequest struct {
	Keyword  string
	Category string
	State    string
	RemoteOnly bool
}

// UpdateJobListingRequest patches an existing listing (admin console only).
type UpdateJobListingRequest struct {
	Title           *string `json:"title,omitempty"`
	CompanyID       *string `json:"company_id,omitempty"`
	Location        *string `json:"location,omitempty"`
	State           *string `json:"state,omitempty"`
	IsRemote        *bool   `json:"is_remote,omitempty"`
	Email           *string `json:"email,omitempty"`
	Description     *string `json:"description,omitempty"`
	Requirements    *string `json:"requirements,omitempty"`
	ExperienceLevel *string `json:"experience_level,omitempty"`
	Category        *string `json:"category,omitempty"`
	Status          *string `json:"status,omitempty"`
}
