package ports

import (
	"context"
	"time"

	"github.com/smartcvnaija/jobbroker/modules/cleanup/model"
)

// CleanupRepository persists pending file-deletion tasks.
type CleanupRepository interface {
	Create(ctx context.Context, task *model.CleanupTask) error
	// ListDue returns every not-yet-done task whose RemindAt has passed,
	// used both by the periodic sweep and by the startup recovery pass
	// (spec.md §9's "rebuilt at startup by listing" becomes "by querying").
	ListDue(ctx context.Context, asOf time.Time) ([]*model.CleanupTask, error)
	MarkDone(ctx context.Context, id string) error
}
