package model

import (
	"time"

	commentModel "github.com/smartcvnaija/jobbroker/modules/comments/model"
	joblistingModel "github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	resumeModel "github.com/smartcvnaija/jobbroker/modules/resumes/model"
)

// ApplicationStatus is the application's simple submit→status lifecycle: no
// stage workflow, just whether the recruiter email went out.
type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusEmailSent   ApplicationStatus = "email_sent"
	StatusEmailFailed ApplicationStatus = "email_failed"
)

// Application is the core aggregate: one end user's application to one job
// listing. UserPhone identifies the applicant — end users are phone-number
// identified, never password accounts.
type Application struct {
	ID              string
	UserPhone       string
	JobListingID    string
	ResumeID        *string
	ApplicantName   string
	ApplicantEmail  string
	ApplicantPhone  string
	RecruiterEmail  string
	CoverLetter     string
	CVTextSnapshot  *string
	ATSScore        *int
	Status          ApplicationStatus
	FailureReason   *string
	EmailSentAt     *time.Time
	SubmittedAt     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JobListingNestedDTO nests a job listing with its company name for the
// application list view.
type JobListingNestedDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	CompanyName *string `json:"company_name,omitempty"`
}

// ResumeNestedDTO represents resume information for the application list.
type ResumeNestedDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ApplicationDTO is the application data transfer object.
type ApplicationDTO struct {
	ID             string                     `json:"id"`
	ApplicantName  string                     `json:"applicant_name"`
	ApplicantEmail string                     `json:"applicant_email"`
	RecruiterEmail string                     `json:"recruiter_email"`
	ATSScore       *int                       `json:"ats_score,omitempty"`
	Status         ApplicationStatus          `json:"status"`
	FailureReason  *string                    `json:"failure_reason,omitempty"`
	SubmittedAt    time.Time                  `json:"submitted_at"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
	JobListing     *JobListingNestedDTO       `json:"job_listing"`
	Resume         *ResumeNestedDTO           `json:"resume,omitempty"`
	Comments       []*commentModel.CommentDTO `json:"comments,omitempty"`
}

// NewApplicationDTO assembles an ApplicationDTO with its nested entities.
func NewApplicationDTO(
	app *Application,
	listing *joblistingModel.JobListing,
	companyName *string,
	resume *resumeModel.Resume,
) *ApplicationDTO {
	dto := &ApplicationDTO{
		ID:             app.ID,
		ApplicantName:  app.ApplicantName,
		ApplicantEmail: app.ApplicantEmail,
		RecruiterEmail: app.RecruiterEmail,
		ATSScore:       app.ATSScore,
		Status:         app.Status,
		FailureReason:  app.FailureReason,
		SubmittedAt:    app.SubmittedAt,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
	}

	if listing != nil {
		dto.JobListing = &JobListingNestedDTO{ID: listing.ID, Title: listing.Title, CompanyName: companyName}
	}

	if resume != nil {
		dto.Resume = &ResumeNestedDTO{ID: resume.ID, Name: resume.Title}
	}

	return dto
}
