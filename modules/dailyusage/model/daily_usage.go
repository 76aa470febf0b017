// Package model holds the DailyUsage aggregate: one row per
// (user_identifier, usage_date) tracking how many recruiter applications a
// phone number may still submit today and what payment unlocked them.
package model

import "time"

// PaymentStatus is the quota row's payment state.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// DailyUsage is one user's quota row for one calendar day. A row whose
// UsageDate is not today is logically zero regardless of the stored
// counter — callers must always resolve "today" through the repository,
// never compare UsageDate themselves against a cached value.
type DailyUsage struct {
	UserIdentifier          string
	UsageDate               time.Time
	ApplicationsRemaining   int
	TotalApplicationsToday  int
	PaymentStatus           PaymentStatus
	PaymentReference        string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Tier names a payment-unlocked application quota. Amounts are
// configuration (internal/config.PaymentConfig.Tiers), never hard-coded.
type Tier string

const (
	TierBasic     Tier = "basic"
	TierPlus      Tier = "plus"
	TierUnlimited Tier = "unlimited"
)
