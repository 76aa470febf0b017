package model

import "errors"

var (
	// ErrJobListingNotFound is returned when no listing has the given ID,
	// whatever its status.
	ErrJobListingNotFound = errors.New("job listing not found")

	// ErrTitleRequired is returned when a listing's title is empty.
	ErrTitleRequired = errors.New("job listing title is required")

	// ErrEmailRequired is returned when a listing has no recruiter contact
	// email — every listing must be reachable by the application worker.
	ErrEmailRequired = errors.New("job listing recruiter email is required")

	// ErrInvalidCategory is returned when a category outside the closed set
	// is supplied.
	ErrInvalidCategory = errors.New("invalid job category")
)

// ErrorCode represents error codes
type ErrorCode string

const (
	CodeJobListingNotFound ErrorCode = "JOB_LISTING_NOT_FOUND"
	CodeTitleRequired      ErrorCode = "TITLE_REQUIRED"
	CodeEmailRequired      ErrorCode = "EMAIL_REQUIRED"
	CodeInvalidCategory    ErrorCode = "INVALID_CATEGORY"
	CodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrJobListingNotFound):
		return CodeJobListingNotFound
	case errors.Is(err, ErrTitleRequired):
		return CodeTitleRequired
	case errors.Is(err, ErrEmailRequired):
		return CodeEmailRequired
	case errors.Is(err, ErrInvalidCategory):
		return CodeInvalidCategory
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrJobListingNotFound):
		return "Job listing not found"
	case errors.Is(err, ErrTitleRequired):
		return "Job listing title is required"
	case errors.Is(err, ErrEmailRequired):
		return "Job listing recruiter email is required"
	case errors.Is(err, ErrInvalidCategory):
		return "Invalid job category"
	default:
		return "Internal server error"
	}
}
