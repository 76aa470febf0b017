package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartcvnaija/jobbroker/modules/dailyusage/model"
)

type DailyUsageRepository struct {
	pool *pgxpool.Pool
}

func NewDailyUsageRepository(pool *pgxpool.Pool) *DailyUsageRepository {
	return &DailyUsageRepository{pool: pool}
}

func (r *DailyUsageRepository) GetToday(ctx context.Context, userIdentifier string) (*model.DailyUsage, bool, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	row := &model.DailyUsage{}
	err := r.pool.QueryRow(ctx, `
		SELECT user_identifier, usage_date, applications_remaining, total_applications_today,
			payment_status, payment_reference, created_at, updated_at
		FROM daily_usage WHERE user_identifier = $1 AND usage_date = $2
	`, userIdentifier, today).Scan(
		&row.UserIdentifier, &row.UsageDate, &row.ApplicationsRemaining, &row.TotalApplicationsToday,
		&row.PaymentStatus, &row.PaymentReference, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return row, true, nil
}

// Grant upserts today's quota row. The ON CONFLICT target is
// (user_identifier, usage_date), matching §9's "deterministic upsert keyed
// by (identifier, usage_date)" so a replayed payment webhook never double
// grants.
func (r *DailyUsageRepository) Grant(ctx context.Context, userIdentifier string, applicationsRemaining int, paymentReference string) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	now := time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO daily_usage (
			user_identifier, usage_date, applications_remaining, total_applications_today,
			payment_status, payment_reference, created_at, updated_at
		) VALUES ($1, $2, $3, 0, $4, $5, $6, $6)
		ON CONFLICT (user_identifier, usage_date) DO UPDATE SET
			applications_remaining = $3,
			payment_status = $4,
			payment_reference = $5,
			updated_at = $6
	`, userIdentifier, today, applicationsRemaining, model.PaymentCompleted, paymentReference, now)
	return err
}

// Deduct is the atomic quota-safety primitive (§8 invariant 1): the affected
// row count, not a prior read, decides whether the deduction succeeded.
func (r *DailyUsageRepository) Deduct(ctx context.Context, userIdentifier string, n int) (bool, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	tag, err := r.pool.Exec(ctx, `
		UPDATE daily_usage
		SET applications_remaining = applications_remaining - $3,
			total_applications_today = total_applications_today + $3,
			updated_at = now()
		WHERE user_identifier = $1 AND usage_date = $2 AND applications_remaining >= $3
	`, userIdentifier, today, n)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
