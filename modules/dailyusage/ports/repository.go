package ports

import (
	"context"

	"github.com/smartcvnaija/jobbroker/modules/dailyusage/model"
)

// DailyUsageRepository persists the per-user, per-day quota row described
// in spec.md §3. Deduct is the one operation the whole system relies on
// being atomic (§8 invariant 1): the underlying SQL is always an
// `UPDATE ... WHERE applications_remaining >= N`.
type DailyUsageRepository interface {
	// GetToday returns today's row for userIdentifier, or found=false if
	// none exists yet (the user has never paid today).
	GetToday(ctx context.Context, userIdentifier string) (row *model.DailyUsage, found bool, err error)

	// Grant upserts today's row with a fresh quota and marks payment
	// completed — safe to replay: keyed by (user_identifier, usage_date),
	// so a duplicate payment webhook delivery is a no-op overwrite, not a
	// double grant.
	Grant(ctx context.Context, userIdentifier string, applicationsRemaining int, paymentReference string) error

	// Deduct atomically subtracts n from today's remaining count, only if
	// at least n remain. Returns ok=false (zero rows affected) when the
	// quota is insufficient; the caller must not enqueue any work in
	// that case.
	Deduct(ctx context.Context, userIdentifier string, n int) (ok bool, err error)
}
