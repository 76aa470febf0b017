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
	"github.com/smartcvnaija/jobbroker/modules/joblistings/model"
)

// JobListingRepository implements ports.JobListingRepository.
type JobListingRepository struct {
	pool *pgxpool.Pool
}

// NewJobListingRepository creates a new job listing repository.
func NewJobListingRepository(pool *pgxpool.Pool) *JobListingRepository {
	return &JobListingRepository{pool: pool}
}

// Create inserts a new catalog entry, defaulting status to active.
func (r *JobListingRepository) Create(ctx context.Context, listing *model.JobListing) error {
	query := `
		INSERT INTO job_listings (
			id, title, company_id, location, state, is_remote, email,
			description, requirements, experience_level, category, source,
			external_id, scraped_at, expires_at, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	listing.ID = uuid.New().String()
	listing.Status = "active"
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		listing.ID, listing.Title, listing.CompanyID, listing.Location, listing.State,
		listing.IsRemote, listing.Email, listing.Description, listing.Requirements,
		listing.ExperienceLevel, listing.Category, listing.Source, listing.ExternalID,
		listing.ScrapedAt, listing.ExpiresAt, listing.Status, listing.CreatedAt, listing.UpdatedAt,
	)
	return err
}

// GetByID retrieves a listing by ID regardless of status, so the
// application worker can still read an expired listing's recruiter email
// for a submission already in flight.
func (r *JobListingRepository) GetByID(ctx context.Context, id string) (*model.JobListing, error) {
	query := `
		SELECT id, title, company_id, location, state, is_remote, email,
			description, requirements, experience_level, category, source,
			external_id, scraped_at, expires_at, status, created_at, updated_at
		FROM job_listings WHERE id = $1
	`

	listing := &model.JobListing{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&listing.ID, &listing.Title, &listing.CompanyID, &listing.Location, &listing.State,
		&listing.IsRemote, &listing.Email, &listing.Description, &listing.Requirements,
		&listing.ExperienceLevel, &listing.Category, &listing.Source, &listing.ExternalID,
		&listing.ScrapedAt, &listing.ExpiresAt, &listing.Status, &listing.CreatedAt, &listing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// Search runs the conversational/HTTP search predicates against the active
// catalog, enriched with company name, newest-first.
func (r *JobListingRepository) Search(ctx context.Context, req *model.SearchJobListingsRequest, limit, offset int) ([]*model.JobListingDTO, int, error) {
	where := []string{"jl.status = 'active'", "(jl.expires_at IS NULL OR jl.expires_at > now())"}
	args := []any{}
	argN := 1

	if req.Keyword != "" {
		where = append(where, fmt.Sprintf("(jl.title ILIKE $%d OR jl.description ILIKE $%d)", argN, argN))
		args = append(args, "%"+req.Keyword+"%")
		argN++
	}
	if req.Category != "" {
		where = append(where, fmt.Sprintf("jl.category = $%d", argN))
		args = append(args, req.Category)
		argN++
	}
	if req.State != "" {
		where = append(where, fmt.Sprintf("jl.state = $%d", argN))
		args = append(args, req.State)
		argN++
	}
	if req.RemoteOnly {
		where = append(where, "jl.is_remote = true")
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := `SELECT COUNT(*) FROM job_listings jl WHERE ` + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArg := argN
	offsetArg := argN + 1
	query := fmt.Sprintf(`
		SELECT jl.id, jl.title, jl.company_id, jl.location, jl.state, jl.is_remote,
			jl.description, jl.requirements, jl.experience_level, jl.category,
			jl.source, jl.status, jl.expires_at, jl.created_at, c.name
		FROM job_listings jl
		LEFT JOIN companies c ON jl.company_id = c.id
		WHERE %s
		ORDER BY jl.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, limitArg, offsetArg)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []*model.JobListingDTO
	for rows.Next() {
		var dto model.JobListingDTO
		var companyName *string
		if err := rows.Scan(
			&dto.ID, &dto.Title, &dto.CompanyID, &dto.Location, &dto.State, &dto.IsRemote,
			&dto.Description, &dto.Requirements, &dto.ExperienceLevel, &dto.Category,
			&dto.Source, &dto.Status, &dto.ExpiresAt, &dto.CreatedAt, &companyName,
		); err != nil {
			return nil, 0, err
		}
		dto.CompanyName = companyName
		results = append(results, &dto)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// Update persists changes to an existing listing.
func (r *JobListingRepository) Update(ctx context.Context, listing *model.JobListing) error {
	query := `
		UPDATE job_listings
		SET title = $2, company_id = $3, location = $4, state = $5, is_remote = $6,
			email = $7, description = $8, requirements = $9, experience_level = $10,
			category = $11, status = $12, updated_at = $13
		WHERE id = $1
	`

	listing.UpdatedAt = time.Now().UTC()
	result, err := r.pool.Exec(ctx, query,
		listing.ID, listing.Title, listing.CompanyID, listing.Location, listing.State,
		listing.IsRemote, listing.Email, listing.Description, listing.Requirements,
		listing.ExperienceLevel, listing.Category, listing.Status, listing.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobListingNotFound
	}
	return nil
}

// Delete removes a listing permanently (admin console only; the normal
// lifecycle expires a listing rather than deleting it).
func (r *JobListingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM job_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrJobListingNotFound
	}
	return nil
}

// ExpireOlderThan flips any active listing past its expires_at to "expired",
// returning how many rows were affected.
func (r *JobListingRepository) ExpireOlderThan(ctx context.Context) (int, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE job_listings SET status = 'expired', updated_at = now()
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= now()
	`)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

// ExistsByExternalID lets the scraper ingestion path dedupe against rows it
// already created for the same source.
func (r *JobListingRepository) ExistsByExternalID(ctx context.Context, source, externalID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM job_listings WHERE source = $1 AND external_id = $2)
	`, source, externalID).Scan(&exists)
	return exists, err
}
