package model

import "errors"

var (
	// ErrInsufficientQuota means the atomic deduction affected zero rows:
	// the requested count exceeds what remains today.
	ErrInsufficientQuota = errors.New("insufficient daily application quota")
	// ErrNoUsageRow means the user has no quota row for today at all —
	// the caller should route them to payment, not to a deduction.
	ErrNoUsageRow = errors.New("no daily usage row for today")
)

type ErrorCode string

const (
	CodeInsufficientQuota ErrorCode = "INSUFFICIENT_QUOTA"
	CodeNoUsageRow        ErrorCode = "NO_USAGE_ROW"
	CodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrInsufficientQuota):
		return CodeInsufficientQuota
	case errors.Is(err, ErrNoUsageRow):
		return CodeNoUsageRow
	default:
		return CodeInternalError
	}
}

func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientQuota):
		return "You do not have enough applications remaining today"
	case errors.Is(err, ErrNoUsageRow):
		return "No application quota found for today"
	default:
		return "Internal server error"
	}
}
