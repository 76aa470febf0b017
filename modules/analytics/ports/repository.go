package ports

import (
	"context"

	"github.com/smartcvnaija/jobbroker/modules/analytics/model"
)

// AnalyticsRepository defines the interface for analytics data access. All
// of it is instance-wide: applications and resumes are owned by WhatsApp
// phone identities, not operator accounts, so there is no per-operator
// scoping to apply here.
type AnalyticsRepository interface {
	// GetOverview returns high-level application statistics
	GetOverview(ctx context.Context) (*model.OverviewAnalytics, error)

	// GetFunnel returns the submitted-to-delivered conversion funnel
	GetFunnel(ctx context.Context) (*model.FunnelAnalytics, error)

	// GetStageTime returns email-delivery timing metrics per job category
	GetStageTime(ctx context.Context) (*model.StageTimeAnalytics, error)

	// GetResumeEffectiveness returns effectiveness metrics per resume
	GetResumeEffectiveness(ctx context.Context) (*model.ResumeAnalytics, error)

	// GetSourceAnalytics returns metrics grouped by job listing source
	GetSourceAnalytics(ctx context.Context) (*model.SourceAnalytics, error)
}
