package model

// CreateApplicationRequest submits a new application for async processing by
// the application worker (C8): it enqueues, it doesn't send synchronously.
type CreateApplicationRequest struct {
	UserPhone    string `json:"user_phone" binding:"required"`
	JobListingID string `json:"job_listing_id" binding:"required"`
	ResumeID     string `json:"resume_id" binding:"required"`
}

// UpdateApplicationRequest lets the admin console patch the outcome of a
// submission; the worker calls ApplicationService.UpdateOutcome directly.
type UpdateApplicationRequest struct {
	Status        *string `json:"status,omitempty" binding:"omitempty,oneof=submitted email_sent email_failed"`
	ATSScore      *int    `json:"ats_score,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`
}
