package ports

import (
	"context"
	"time"

	"github.com/smartcvnaija/jobbroker/modules/applications/model"
)

// ListOptions represents options for listing applications.
type ListOptions struct {
	Limit   int
	Offset  int
	SortBy  string // "submitted_at", "status"
	SortDir string // "asc", "desc"
}

// ApplicationRepository persists the applicant's submit→status lifecycle.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, appID string) (*model.Application, error)
	ListByUserPhone(ctx context.Context, userPhone string, opts *ListOptions) ([]*model.Application, int, error)
	Update(ctx context.Context, app *model.Application) error
	Delete(ctx context.Context, appID string) error
	CountByUserPhoneSince(ctx context.Context, userPhone string, since time.Time) (int, error)
}
