package service

import (
	"context"
	"strings"

	"github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	"github.com/smartcvnaija/jobbroker/modules/joblistings/ports"
)

// JobListingService handles job catalog business logic.
type JobListingService struct {
	repo ports.JobListingRepository
}

// NewJobListingService creates a new job listing service.
func NewJobListingService(repo ports.JobListingRepository) *JobListingService {
	return &JobListingService{repo: repo}
}

// Create validates and stores a new catalog entry, used by both the
// recruiter-direct posting webhook and any admin-console ingestion.
func (s *JobListingService) Create(ctx context.Context, req *model.CreateJobListingRequest) (*model.JobListingDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrTitleRequired
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, model.ErrEmailRequired
	}
	if !model.IsValidCategory(req.Category) {
		return nil, model.ErrInvalidCategory
	}

	listing := &model.JobListing{
		Title:           title,
		CompanyID:       req.CompanyID,
		Location:        req.Location,
		State:           req.State,
		IsRemote:        req.IsRemote,
		Email:           strings.TrimSpace(req.Email),
		Description:     req.Description,
		Requirements:    req.Requirements,
		ExperienceLevel: req.ExperienceLevel,
		Category:        model.Category(req.Category),
		Source:          req.Source,
		ExternalID:      req.ExternalID,
	}
	if listing.Source == "" {
		listing.Source = "recruiter_direct"
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing.ToDTO(), nil
}

// GetByID retrieves one listing, used by the conversation orchestrator when
// the user selects a result to view or apply to.
func (s *JobListingService) GetByID(ctx context.Context, id string) (*model.JobListing, error) {
	return s.repo.GetByID(ctx, id)
}

// Search runs a catalog search and returns a page of enriched DTOs.
func (s *JobListingService) Search(ctx context.Context, req *model.SearchJobListingsRequest, limit, offset int) ([]*model.JobListingDTO, int, error) {
	return s.repo.Search(ctx, req, limit, offset)
}

// Update applies an admin patch to an existing listing.
func (s *JobListingService) Update(ctx context.Context, id string, req *model.UpdateJobListingRequest) (*model.JobListingDTO, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, model.ErrTitleRequired
		}
		listing.Title = strings.TrimSpace(*req.Title)
	}
	if req.CompanyID != nil {
		listing.CompanyID = req.CompanyID
	}
	if req.Location != nil {
		listing.Location = *req.Location
	}
	if req.State != nil {
		listing.State = *req.State
	}
	if req.IsRemote != nil {
		listing.IsRemote = *req.IsRemote
	}
	if req.Email != nil {
		listing.Email = *req.Email
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Requirements != nil {
		listing.Requirements = req.Requirements
	}
	if req.ExperienceLevel != nil {
		listing.ExperienceLevel = *req.ExperienceLevel
	}
	if req.Category != nil {
		if !model.IsValidCategory(*req.Category) {
			return nil, model.ErrInvalidCategory
		}
		listing.Category = model.Category(*req.Category)
	}
	if req.Status != nil {
		listing.Status = *req.Status
	}

	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing.ToDTO(), nil
}

// Delete permanently removes a listing (admin console only).
func (s *JobListingService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ExpireStale flips listings past their expires_at to "expired" and returns
// how many were changed.
func (s *JobListingService) ExpireStale(ctx context.Context) (int, error) {
	return s.repo.ExpireOlderThan(ctx)
}
