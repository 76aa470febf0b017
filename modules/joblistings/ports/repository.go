package ports

import (
	"context"

	"github.com/smartcvnaija/jobbroker/modules/joblistings/model"
)

// JobListingRepository defines the interface for job catalog data access.
type JobListingRepository interface {
	Create(ctx context.Context, listing *model.JobListing) error
	GetByID(ctx context.Context, id string) (*model.JobListing, error)
	Search(ctx context.Context, req *model.SearchJobListingsRequest, limit, offset int) ([]*model.JobListingDTO, int, error)
	Update(ctx context.Context, listing *model.JobListing) error
	Delete(ctx context.Context, id string) error
	ExpireOlderThan(ctx context.Context) (int, error)
	ExistsByExternalID(ctx context.Context, source, externalID string) (bool, error)
}
