package repository

import (
	"context"

	"github.com/smartcvnaija/jobbroker/modules/analytics/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool defines the interface for database operations used by the repository
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// AnalyticsRepository aggregates metrics across every application and
// resume the broker has ever handled. Unlike the personal-tracker module
// it descends from, there is no per-operator ownership to scope by: an
// application belongs to a WhatsApp phone number, not an admin account.
type AnalyticsRepository struct {
	pool DBPool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// NewAnalyticsRepositoryWithPool creates a repository with a custom pool (for testing)
func NewAnalyticsRepositoryWithPool(pool DBPool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// GetOverview returns high-level application statistics. "Response" in this
// domain means the recruiter email actually went out, since the broker has
// no further pipeline stage to observe after that.
func (r *AnalyticsRepository) GetOverview(ctx context.Context) (*model.OverviewAnalytics, error) {
	query := `
		WITH app_stats AS (
			SELECT
				COUNT(*) AS total,
				COUNT(*) FILTER (WHERE status = 'submitted') AS active,
				COUNT(*) FILTER (WHERE status IN ('email_sent', 'email_failed')) AS closed,
				COUNT(*) FILTER (WHERE status = 'email_sent') AS delivered,
				AVG(EXTRACT(EPOCH FROM (email_sent_at - submitted_at)) / 86400)
					FILTER (WHERE email_sent_at IS NOT NULL) AS avg_days
			FROM applications
		)
		SELECT
			COALESCE(total, 0),
			COALESCE(active, 0),
			COALESCE(closed, 0),
			CASE WHEN total > 0 THEN ROUND((delivered::numeric / total) * 100, 2) ELSE 0 END,
			COALESCE(ROUND(avg_days::numeric, 2), 0)
		FROM app_stats
	`

	analytics := &model.OverviewAnalytics{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&analytics.TotalApplications,
		&analytics.ActiveApplications,
		&analytics.ClosedApplications,
		&analytics.ResponseRate,
		&analytics.AvgDaysToFirstResponse,
	)
	if err != nil {
		return nil, err
	}

	return analytics, nil
}

// GetFunnel returns the two-step funnel the broker actually has: a
// submitted application either results in a delivered recruiter email or
// it doesn't. There is no interview/offer pipeline to track past that.
func (r *AnalyticsRepository) GetFunnel(ctx context.Context) (*model.FunnelAnalytics, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'email_sent')
		FROM applications
	`

	var submitted, delivered int
	if err := r.pool.QueryRow(ctx, query).Scan(&submitted, &delivered); err != nil {
		return nil, err
	}

	conversion := 0.0
	if submitted > 0 {
		conversion = roundTo2(float64(delivered) / float64(submitted) * 100)
	}
	dropOff := 0.0
	if submitted > 0 {
		dropOff = roundTo2(float64(submitted-delivered) / float64(submitted) * 100)
	}

	stages := []model.FunnelStage{
		{StageName: "Submitted", StageOrder: 1, Count: submitted, ConversionRate: 100.0, DropOffRate: 0.0},
		{StageName: "Email Delivered", StageOrder: 2, Count: delivered, ConversionRate: conversion, DropOffRate: dropOff},
	}

	return &model.FunnelAnalytics{Stages: stages}, nil
}

// GetStageTime returns, per job category, how long it takes the worker
// pipeline to get a recruiter email out the door after submission.
func (r *AnalyticsRepository) GetStageTime(ctx context.Context) (*model.StageTimeAnalytics, error) {
	query := `
		SELECT
			jl.category,
			AVG(EXTRACT(EPOCH FROM (a.email_sent_at - a.submitted_at)) / 86400) AS avg_days,
			MIN(EXTRACT(EPOCH FROM (a.email_sent_at - a.submitted_at)) / 86400) AS min_days,
			MAX(EXTRACT(EPOCH FROM (a.email_sent_at - a.submitted_at)) / 86400) AS max_days,
			COUNT(*) AS applications_count
		FROM applications a
		JOIN job_listings jl ON jl.id = a.job_listing_id
		WHERE a.email_sent_at IS NOT NULL
		GROUP BY jl.category
		ORDER BY jl.category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.StageTimeMetrics
	order := 0
	for rows.Next() {
		order++
		var stage model.StageTimeMetrics
		if err := rows.Scan(
			&stage.StageName,
			&stage.AvgDays,
			&stage.MinDays,
			&stage.MaxDays,
			&stage.ApplicationsCount,
		); err != nil {
			return nil, err
		}
		stage.StageOrder = order
		stages = append(stages, stage)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.StageTimeAnalytics{Stages: stages}, nil
}

// GetResumeEffectiveness returns effectiveness metrics per resume: how many
// applications it was attached to, and of those how many reached a
// delivered recruiter email ("interview" in the teacher's personal-tracker
// sense doesn't exist here, so it's reported equal to the delivered count).
func (r *AnalyticsRepository) GetResumeEffectiveness(ctx context.Context) (*model.ResumeAnalytics, error) {
	query := `
		SELECT
			r.id,
			r.title,
			COUNT(a.id) AS applications_count,
			COUNT(a.id) FILTER (WHERE a.status = 'email_sent') AS responses_count
		FROM resumes r
		LEFT JOIN applications a ON a.resume_id = r.id
		GROUP BY r.id, r.title
		ORDER BY applications_count DESC, r.title
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []model.ResumeEffectiveness
	for rows.Next() {
		var resume model.ResumeEffectiveness
		if err := rows.Scan(
			&resume.ResumeID,
			&resume.ResumeTitle,
			&resume.ApplicationsCount,
			&resume.ResponsesCount,
		); err != nil {
			return nil, err
		}
		resume.InterviewsCount = resume.ResponsesCount
		if resume.ApplicationsCount > 0 {
			resume.ResponseRate = roundTo2(float64(resume.ResponsesCount) / float64(resume.ApplicationsCount) * 100)
		}
		resumes = append(resumes, resume)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.ResumeAnalytics{Resumes: resumes}, nil
}

// GetSourceAnalytics returns metrics grouped by job listing source
// ("recruiter_direct" vs the WhatsApp discovery sources), the broker's
// equivalent of the teacher's per-job source breakdown.
func (r *AnalyticsRepository) GetSourceAnalytics(ctx context.Context) (*model.SourceAnalytics, error) {
	query := `
		SELECT
			COALESCE(NULLIF(jl.source, ''), 'unknown') AS source_name,
			COUNT(a.id) AS applications_count,
			COUNT(a.id) FILTER (WHERE a.status = 'email_sent') AS responses_count
		FROM applications a
		JOIN job_listings jl ON jl.id = a.job_listing_id
		GROUP BY COALESCE(NULLIF(jl.source, ''), 'unknown')
		ORDER BY applications_count DESC, source_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []model.SourceMetrics
	for rows.Next() {
		var source model.SourceMetrics
		if err := rows.Scan(
			&source.SourceName,
			&source.ApplicationsCount,
			&source.ResponsesCount,
		); err != nil {
			return nil, err
		}
		if source.ApplicationsCount > 0 {
			source.ConversionRate = roundTo2(float64(source.ResponsesCount) / float64(source.ApplicationsCount) * 100)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.SourceAnalytics{Sources: sources}, nil
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
