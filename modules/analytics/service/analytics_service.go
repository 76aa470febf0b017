package service

import (
	"context"

	"github.com/smartcvnaija/jobbroker/modules/analytics/model"
	"github.com/smartcvnaija/jobbroker/modules/analytics/ports"
)

type AnalyticsService struct {
	repo ports.AnalyticsRepository
}

func NewAnalyticsService(repo ports.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// GetOverview returns high-level application statistics
func (s *AnalyticsService) GetOverview(ctx context.Context) (*model.OverviewAnalytics, error) {
	return s.repo.GetOverview(ctx)
}

// GetFunnel returns the submitted-to-delivered conversion funnel
func (s *AnalyticsService) GetFunnel(ctx context.Context) (*model.FunnelAnalytics, error) {
	return s.repo.GetFunnel(ctx)
}

// GetStageTime returns email-delivery timing metrics per job category
func (s *AnalyticsService) GetStageTime(ctx context.Context) (*model.StageTimeAnalytics, error) {
	return s.repo.GetStageTime(ctx)
}

// GetResumeEffectiveness returns effectiveness metrics per resume
func (s *AnalyticsService) GetResumeEffectiveness(ctx context.Context) (*model.ResumeAnalytics, error) {
	return s.repo.GetResumeEffectiveness(ctx)
}

// GetSourceAnalytics returns metrics grouped by job source
func (s *AnalyticsService) GetSourceAnalytics(ctx context.Context) (*model.SourceAnalytics, error) {
	return s.repo.GetSourceAnalytics(ctx)
}
