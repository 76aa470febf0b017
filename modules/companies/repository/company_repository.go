package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartcvnaija/jobbroker/modules/companies/model"
	"github.com/smartcvnaija/jobbroker/modules/companies/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyRepository implements ports.CompanyRepository
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create creates a new company
func (r *CompanyRepository) Create(ctx context.Context, company *model.Company) error {
	query := `
		INSERT INTO companies (id, user_id, name, website, location, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	company.ID = uuid.New().String()
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		company.ID,
		company.UserID,
		company.Name,
		company.Website,
		company.Location,
		company.Notes,
		company.CreatedAt,
		company.UpdatedAt,
	)

	return err
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, userID, companyID string) (*model.Company, error) {
	query := `
		SELECT id, user_id, name, website, location, notes, created_at, updated_at
		FROM companies
		WHERE id = $1 AND user_id = $2
	`

	company := &model.Company{}
	err := r.pool.QueryRow(ctx, query, companyID, userID).Scan(
		&company.ID,
		&company.UserID,
		&company.Name,
		&company.Website,
		&company.Location,
		&company.Notes,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCompanyNotFound
		}
		return nil, err
	}

	return company, nil
}

// GetByIDEnriched retrieves a company by ID with applications-derived
// fields rolled up across every job listing it owns.
func (r *CompanyRepository) GetByIDEnriched(ctx context.Context, userID, companyID string) (*model.CompanyDTO, error) {
	query := `
		SELECT
			c.id, c.name, c.website, c.location, c.notes, c.created_at, c.updated_at,
			COALESCE(COUNT(a.id), 0) AS applications_count,
			COALESCE(COUNT(a.id) FILTER (WHERE a.status = 'submitted'), 0) AS active_applications_count,
			MAX(a.updated_at) AS last_activity_at
		FROM companies c
		LEFT JOIN job_listings jl ON jl.company_id = c.id
		LEFT JOIN applications a ON a.job_listing_id = jl.id
		WHERE c.id = $1 AND c.user_id = $2
		GROUP BY c.id, c.name, c.website, c.location, c.notes, c.created_at, c.updated_at
	`

	var dto model.CompanyDTO
	err := r.pool.QueryRow(ctx, query, companyID, userID).Scan(
		&dto.ID,
		&dto.Name,
		&dto.Website,
		&dto.Location,
		&dto.Notes,
		&dto.CreatedAt,
		&dto.UpdatedAt,
		&dto.ApplicationsCount,
		&dto.ActiveApplicationsCount,
		&dto.LastActivityAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCompanyNotFound
		}
		return nil, err
	}

	dto.DerivedStatus = r.deriveStatus(dto.ApplicationsCount)

	return &dto, nil
}

// List retrieves companies for a user with pagination and enriched fields
func (r *CompanyRepository) List(ctx context.Context, userID string, opts *ports.ListOptions) ([]*model.CompanyDTO, int, error) {
	countQuery := `SELECT COUNT(*) FROM companies WHERE user_id = $1`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "c.name ASC"
	if opts.SortBy != "" {
		sortCol := "c.name"
		switch opts.SortBy {
		case "name":
			sortCol = "c.name"
		case "last_activity":
			sortCol = "last_activity_at"
		case "applications_count":
			sortCol = "applications_count"
		}

		sortDir := "ASC"
		if strings.ToUpper(opts.SortDir) == "DESC" {
			sortDir = "DESC"
		}

		orderBy = fmt.Sprintf("%s %s", sortCol, sortDir)
	}

	query := fmt.Sprintf(`
		SELECT
			c.id, c.name, c.website, c.location, c.notes, c.created_at, c.updated_at,
			COALESCE(COUNT(a.id), 0) AS applications_count,
			COALESCE(COUNT(a.id) FILTER (WHERE a.status = 'submitted'), 0) AS active_applications_count,
			MAX(a.updated_at) AS last_activity_at
		FROM companies c
		LEFT JOIN job_listings jl ON jl.company_id = c.id
		LEFT JOIN applications a ON a.job_listing_id = jl.id
		WHERE c.user_id = $1
		GROUP BY c.id, c.name, c.website, c.location, c.notes, c.created_at, c.updated_at
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, orderBy)

	rows, err := r.pool.Query(ctx, query, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []*model.CompanyDTO
	for rows.Next() {
		dto := &model.CompanyDTO{}
		if err := rows.Scan(
			&dto.ID,
			&dto.Name,
			&dto.Website,
			&dto.Location,
			&dto.Notes,
			&dto.CreatedAt,
			&dto.UpdatedAt,
			&dto.ApplicationsCount,
			&dto.ActiveApplicationsCount,
			&dto.LastActivityAt,
		); err != nil {
			return nil, 0, err
		}

		dto.DerivedStatus = r.deriveStatus(dto.ApplicationsCount)
		companies = append(companies, dto)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

// GetRelatedJobsAndApplicationsCount gets counts of related listings and
// applications, used to warn an operator before a delete.
func (r *CompanyRepository) GetRelatedJobsAndApplicationsCount(ctx context.Context, userID, companyID string) (jobsCount, appsCount int, err error) {
	query := `
		SELECT
			COALESCE(COUNT(DISTINCT jl.id), 0) AS jobs_count,
			COALESCE(COUNT(DISTINCT a.id), 0) AS applications_count
		FROM companies c
		LEFT JOIN job_listings jl ON jl.company_id = c.id
		LEFT JOIN applications a ON a.job_listing_id = jl.id
		WHERE c.id = $1 AND c.user_id = $2
	`

	err = r.pool.QueryRow(ctx, query, companyID, userID).Scan(&jobsCount, &appsCount)
	return
}

// deriveStatus derives company status based on application data
func (r *CompanyRepository) deriveStatus(appsCount int) string {
	if appsCount == 0 {
		return string(model.CompanyStatusIdle)
	}
	return string(model.CompanyStatusActive)
}

// Update updates a company
func (r *CompanyRepository) Update(ctx context.Context, company *model.Company) error {
	query := `
		UPDATE companies
		SET name = $3, website = $4, location = $5, notes = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`

	company.UpdatedAt = time.Now().UTC()

	result, err := r.pool.Exec(ctx, query,
		company.ID,
		company.UserID,
		company.Name,
		company.Website,
		company.Location,
		company.Notes,
		company.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return model.ErrCompanyNotFound
	}

	return nil
}

// Delete deletes a company
func (r *CompanyRepository) Delete(ctx context.Context, userID, companyID string) error {
	query := `DELETE FROM companies WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, companyID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return model.ErrCompanyNotFound
	}

	return nil
}
