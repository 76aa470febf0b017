package model

import "errors"

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrJobListingRequired  = errors.New("job listing is required")
	ErrApplicantEmailRequired = errors.New("applicant email is required")
	ErrRecruiterEmailRequired = errors.New("recruiter email is required")
)

type ErrorCode string

const (
	CodeApplicationNotFound      ErrorCode = "APPLICATION_NOT_FOUND"
	CodeInvalidStatus            ErrorCode = "INVALID_STATUS"
	CodeJobListingRequired       ErrorCode = "JOB_LISTING_REQUIRED"
	CodeApplicantEmailRequired   ErrorCode = "APPLICANT_EMAIL_REQUIRED"
	CodeRecruiterEmailRequired   ErrorCode = "RECRUITER_EMAIL_REQUIRED"
	CodeInternalError            ErrorCode = "INTERNAL_ERROR"
)

func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrApplicationNotFound):
		return CodeApplicationNotFound
	case errors.Is(err, ErrInvalidStatus):
		return CodeInvalidStatus
	case errors.Is(err, ErrJobListingRequired):
		return CodeJobListingRequired
	case errors.Is(err, ErrApplicantEmailRequired):
		return CodeApplicantEmailRequired
	case errors.Is(err, ErrRecruiterEmailRequired):
		return CodeRecruiterEmailRequired
	default:
		return CodeInternalError
	}
}

func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrApplicationNotFound):
		return "Application not found"
	case errors.Is(err, ErrInvalidStatus):
		return "Invalid status"
	case errors.Is(err, ErrJobListingRequired):
		return "Job listing is required"
	case errors.Is(err, ErrApplicantEmailRequired):
		return "Applicant email is required"
	case errors.Is(err, ErrRecruiterEmailRequired):
		return "Recruiter email is required"
	default:
		return "Internal server error"
	}
}
