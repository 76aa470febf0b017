package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartcvnaija/jobbroker/modules/applications/model"
	"github.com/smartcvnaija/jobbroker/modules/applications/ports"
)

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	query := `
		INSERT INTO applications (
			id, user_phone, job_listing_id, resume_id, applicant_name, applicant_email,
			applicant_phone, recruiter_email, cover_letter, cv_text_snapshot, ats_score, status, failure_reason,
			submitted_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	app.ID = uuid.New().String()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = now
	}
	if app.Status == "" {
		app.Status = model.StatusSubmitted
	}

	_, err := r.pool.Exec(ctx, query,
		app.ID, app.UserPhone, app.JobListingID, app.ResumeID, app.ApplicantName, app.ApplicantEmail,
		app.ApplicantPhone, app.RecruiterEmail, app.CoverLetter, app.CVTextSnapshot, app.ATSScore, app.Status, app.FailureReason,
		app.SubmittedAt, app.CreatedAt, app.UpdatedAt,
	)
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, appID string) (*model.Application, error) {
	query := `
		SELECT id, user_phone, job_listing_id, resume_id, applicant_name, applicant_email,
			applicant_phone, recruiter_email, cover_letter, cv_text_snapshot, ats_score, status, failure_reason,
			submitted_at, created_at, updated_at
		FROM applications WHERE id = $1
	`

	app := &model.Application{}
	err := r.pool.QueryRow(ctx, query, appID).Scan(
		&app.ID, &app.UserPhone, &app.JobListingID, &app.ResumeID, &app.ApplicantName, &app.ApplicantEmail,
		&app.ApplicantPhone, &app.RecruiterEmail, &app.CoverLetter, &app.CVTextSnapshot, &app.ATSScore, &app.Status, &app.FailureReason,
		&app.SubmittedAt, &app.CreatedAt, &app.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) ListByUserPhone(ctx context.Context, userPhone string, opts *ports.ListOptions) ([]*model.Application, int, error) {
	countQuery := `SELECT COUNT(*) FROM applications WHERE user_phone = $1`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userPhone).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol := "submitted_at"
	if opts.SortBy == "status" {
		sortCol = "status"
	}
	sortDir := "DESC"
	if strings.ToUpper(opts.SortDir) == "ASC" {
		sortDir = "ASC"
	}
	orderBy := fmt.Sprintf("%s %s", sortCol, sortDir)

	query := fmt.Sprintf(`
		SELECT id, user_phone, job_listing_id, resume_id, applicant_name, applicant_email,
			applicant_phone, recruiter_email, cover_letter, cv_text_snapshot, ats_score, status, failure_reason,
			submitted_at, created_at, updated_at
		FROM applications
		WHERE user_phone = $1
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, orderBy)

	rows, err := r.pool.Query(ctx, query, userPhone, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		app := &model.Application{}
		if err := rows.Scan(
			&app.ID, &app.UserPhone, &app.JobListingID, &app.ResumeID, &app.ApplicantName, &app.ApplicantEmail,
			&app.ApplicantPhone, &app.RecruiterEmail, &app.CoverLetter, &app.CVTextSnapshot, &app.ATSScore, &app.Status, &app.FailureReason,
			&app.SubmittedAt, &app.CreatedAt, &app.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	return apps, total, rows.Err()
}

func (r *ApplicationRepository) Update(ctx context.Context, app *model.Application) error {
	query := `
		UPDATE applications
		SET status = $2, ats_score = $3, failure_reason = $4, email_sent_at = $5, updated_at = $6
		WHERE id = $1
	`

	app.UpdatedAt = time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, app.ID, app.Status, app.ATSScore, app.FailureReason, app.EmailSentAt, app.UpdatedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, appID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, appID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrApplicationNotFound
	}
	return nil
}

// CountByUserPhoneSince backs the daily application quota check.
func (r *ApplicationRepository) CountByUserPhoneSince(ctx context.Context, userPhone string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM applications WHERE user_phone = $1 AND submitted_at >= $2
	`, userPhone, since).Scan(&count)
	return count, err
}
