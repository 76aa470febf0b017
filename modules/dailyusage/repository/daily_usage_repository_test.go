package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/smartcvnaija/jobbroker/modules/dailyusage/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyUsageRepository_GetToday(t *testing.T) {
	t.Run("returns the row when it exists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		now := time.Now().UTC()
		rows := pgxmock.NewRows([]string{
			"user_identifier", "usage_date", "applications_remaining", "total_applications_today",
			"payment_status", "payment_reference", "created_at", "updated_at",
		}).AddRow("+1555", now, 5, 2, model.PaymentCompleted, "ref-1", now, now)

		mock.ExpectQuery("SELECT user_identifier, usage_date, applications_remaining, total_applications_today").
			WithArgs("+1555", pgxmock.AnyArg()).
			WillReturnRows(rows)

		repo := &testDailyUsageRepo{mock: mock}
		row, found, err := repo.GetToday(context.Background(), "+1555")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 5, row.ApplicationsRemaining)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns found=false when no row exists for today", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT user_identifier, usage_date, applications_remaining, total_applications_today").
			WithArgs("+1555", pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		repo := &testDailyUsageRepo{mock: mock}
		row, found, err := repo.GetToday(context.Background(), "+1555")

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, row)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDailyUsageRepository_Grant(t *testing.T) {
	t.Run("upserts the quota row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("INSERT INTO daily_usage").
			WithArgs("+1555", pgxmock.AnyArg(), 20, model.PaymentCompleted, "ref-1", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := &testDailyUsageRepo{mock: mock}
		err = repo.Grant(context.Background(), "+1555", 20, "ref-1")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDailyUsageRepository_Deduct(t *testing.T) {
	t.Run("returns ok=true when the conditional update affected a row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE daily_usage").
			WithArgs("+1555", pgxmock.AnyArg(), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := &testDailyUsageRepo{mock: mock}
		ok, err := repo.Deduct(context.Background(), "+1555", 1)

		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ok=false when quota is insufficient", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE daily_usage").
			WithArgs("+1555", pgxmock.AnyArg(), 10).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := &testDailyUsageRepo{mock: mock}
		ok, err := repo.Deduct(context.Background(), "+1555", 10)

		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

// testDailyUsageRepo is a test wrapper that uses pgxmock
type testDailyUsageRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testDailyUsageRepo) GetToday(ctx context.Context, userIdentifier string) (*model.DailyUsage, bool, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	row := &model.DailyUsage{}
	err := r.mock.QueryRow(ctx, `
		SELECT user_identifier, usage_date, applications_remaining, total_applications_today,
			payment_status, payment_reference, created_at, updated_at
		FROM daily_usage WHERE user_identifier = $1 AND usage_date = $2
	`, userIdentifier, today).Scan(
		&row.UserIdentifier, &row.UsageDate, &row.ApplicationsRemaining, &row.TotalApplicationsToday,
		&row.PaymentStatus, &row.PaymentReference, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	return row, true, nil
}

func (r *testDailyUsageRepo) Grant(ctx context.Context, userIdentifier string, applicationsRemaining int, paymentReference string) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	now := time.Now().UTC()

	_, err := r.mock.Exec(ctx, `
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

func (r *testDailyUsageRepo) Deduct(ctx context.Context, userIdentifier string, n int) (bool, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	tag, err := r.mock.Exec(ctx, `
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
