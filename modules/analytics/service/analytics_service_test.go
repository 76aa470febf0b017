package service

import (
	"context"
	"errors"
	"testing"

	"github.com/smartcvnaija/jobbroker/modules/analytics/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAnalyticsRepository is a mock implementation of the AnalyticsRepository interface
type MockAnalyticsRepository struct {
	GetOverviewFunc            func(ctx context.Context) (*model.OverviewAnalytics, error)
	GetFunnelFunc              func(ctx context.Context) (*model.FunnelAnalytics, error)
	GetStageTimeFunc           func(ctx context.Context) (*model.StageTimeAnalytics, error)
	GetResumeEffectivenessFunc func(ctx context.Context) (*model.ResumeAnalytics, error)
	GetSourceAnalyticsFunc     func(ctx context.Context) (*model.SourceAnalytics, error)
}

func (m *MockAnalyticsRepository) GetOverview(ctx context.Context) (*model.OverviewAnalytics, error) {
	if m.GetOverviewFunc != nil {
		return m.GetOverviewFunc(ctx)
	}
	return nil, nil
}

func (m *MockAnalyticsRepository) GetFunnel(ctx context.Context) (*model.FunnelAnalytics, error) {
	if m.GetFunnelFunc != nil {
		return m.GetFunnelFunc(ctx)
	}
	return nil, nil
}

func (m *MockAnalyticsRepository) GetStageTime(ctx context.Context) (*model.StageTimeAnalytics, error) {
	if m.GetStageTimeFunc != nil {
		return m.GetStageTimeFunc(ctx)
	}
	return nil, nil
}

func (m *MockAnalyticsRepository) GetResumeEffectiveness(ctx context.Context) (*model.ResumeAnalytics, error) {
	if m.GetResumeEffectivenessFunc != nil {
		return m.GetResumeEffectivenessFunc(ctx)
	}
	return nil, nil
}

func (m *MockAnalyticsRepository) GetSourceAnalytics(ctx context.Context) (*model.SourceAnalytics, error) {
	if m.GetSourceAnalyticsFunc != nil {
		return m.GetSourceAnalyticsFunc(ctx)
	}
	return nil, nil
}

func TestAnalyticsService_GetOverview(t *testing.T) {
	t.Run("returns overview from repository", func(t *testing.T) {
		expectedOverview := &model.OverviewAnalytics{
			TotalApplications:      100,
			ActiveApplications:     60,
			ClosedApplications:     40,
			ResponseRate:           45.5,
			AvgDaysToFirstResponse: 5.2,
		}

		mockRepo := &MockAnalyticsRepository{
			GetOverviewFunc: func(ctx context.Context) (*model.OverviewAnalytics, error) {
				return expectedOverview, nil
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetOverview(context.Background())

		require.NoError(t, err)
		assert.Equal(t, expectedOverview, result)
	})

	t.Run("returns error from repository", func(t *testing.T) {
		expectedError := errors.New("database error")

		mockRepo := &MockAnalyticsRepository{
			GetOverviewFunc: func(ctx context.Context) (*model.OverviewAnalytics, error) {
				return nil, expectedError
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetOverview(context.Background())

		assert.Nil(t, result)
		assert.Equal(t, expectedError, err)
	})
}

func TestAnalyticsService_GetFunnel(t *testing.T) {
	t.Run("returns funnel from repository", func(t *testing.T) {
		expectedFunnel := &model.FunnelAnalytics{
			Stages: []model.FunnelStage{
				{StageName: "Submitted", StageOrder: 1, Count: 100, ConversionRate: 100.0, DropOffRate: 0.0},
				{StageName: "Email Delivered", StageOrder: 2, Count: 50, ConversionRate: 50.0, DropOffRate: 50.0},
			},
		}

		mockRepo := &MockAnalyticsRepository{
			GetFunnelFunc: func(ctx context.Context) (*model.FunnelAnalytics, error) {
				return expectedFunnel, nil
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetFunnel(context.Background())

		require.NoError(t, err)
		assert.Equal(t, expectedFunnel, result)
		assert.Len(t, result.Stages, 2)
	})

	t.Run("returns error from repository", func(t *testing.T) {
		expectedError := errors.New("database error")

		mockRepo := &MockAnalyticsRepository{
			GetFunnelFunc: func(ctx context.Context) (*model.FunnelAnalytics, error) {
				return nil, expectedError
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetFunnel(context.Background())

		assert.Nil(t, result)
		assert.Equal(t, expectedError, err)
	})
}

func TestAnalyticsService_GetStageTime(t *testing.T) {
	t.Run("returns stage time from repository", func(t *testing.T) {
		expectedStageTime := &model.StageTimeAnalytics{
			Stages: []model.StageTimeMetrics{
				{StageName: "it_software", StageOrder: 1, AvgDays: 0.5, MinDays: 0.1, MaxDays: 1.2, ApplicationsCount: 50},
				{StageName: "sales", StageOrder: 2, AvgDays: 0.8, MinDays: 0.2, MaxDays: 2.0, ApplicationsCount: 30},
			},
		}

		mockRepo := &MockAnalyticsRepository{
			GetStageTimeFunc: func(ctx context.Context) (*model.StageTimeAnalytics, error) {
				return expectedStageTime, nil
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetStageTime(context.Background())

		require.NoError(t, err)
		assert.Equal(t, expectedStageTime, result)
	})

	t.Run("returns error from repository", func(t *testing.T) {
		expectedError := errors.New("database error")

		mockRepo := &MockAnalyticsRepository{
			GetStageTimeFunc: func(ctx context.Context) (*model.StageTimeAnalytics, error) {
				return nil, expectedError
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetStageTime(context.Background())

		assert.Nil(t, result)
		assert.Equal(t, expectedError, err)
	})
}

func TestAnalyticsService_GetResumeEffectiveness(t *testing.T) {
	t.Run("returns resume effectiveness from repository", func(t *testing.T) {
		expectedResumes := &model.ResumeAnalytics{
			Resumes: []model.ResumeEffectiveness{
				{
					ResumeID:          "resume-1",
					ResumeTitle:       "Software Engineer CV",
					ApplicationsCount: 25,
					ResponsesCount:    15,
					InterviewsCount:   15,
					ResponseRate:      60.0,
				},
			},
		}

		mockRepo := &MockAnalyticsRepository{
			GetResumeEffectivenessFunc: func(ctx context.Context) (*model.ResumeAnalytics, error) {
				return expectedResumes, nil
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetResumeEffectiveness(context.Background())

		require.NoError(t, err)
		assert.Equal(t, expectedResumes, result)
	})

	t.Run("returns error from repository", func(t *testing.T) {
		expectedError := errors.New("database error")

		mockRepo := &MockAnalyticsRepository{
			GetResumeEffectivenessFunc: func(ctx context.Context) (*model.ResumeAnalytics, error) {
				return nil, expectedError
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetResumeEffectiveness(context.Background())

		assert.Nil(t, result)
		assert.Equal(t, expectedError, err)
	})
}

func TestAnalyticsService_GetSourceAnalytics(t *testing.T) {
	t.Run("returns source analytics from repository", func(t *testing.T) {
		expectedSources := &model.SourceAnalytics{
			Sources: []model.SourceMetrics{
				{SourceName: "recruiter_direct", ApplicationsCount: 40, ResponsesCount: 20, ConversionRate: 50.0},
				{SourceName: "scraper_jobberman", ApplicationsCount: 30, ResponsesCount: 10, ConversionRate: 33.33},
			},
		}

		mockRepo := &MockAnalyticsRepository{
			GetSourceAnalyticsFunc: func(ctx context.Context) (*model.SourceAnalytics, error) {
				return expectedSources, nil
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetSourceAnalytics(context.Background())

		require.NoError(t, err)
		assert.Equal(t, expectedSources, result)
	})

	t.Run("returns error from repository", func(t *testing.T) {
		expectedError := errors.New("database error")

		mockRepo := &MockAnalyticsRepository{
			GetSourceAnalyticsFunc: func(ctx context.Context) (*model.SourceAnalytics, error) {
				return nil, expectedError
			},
		}

		service := NewAnalyticsService(mockRepo)
		result, err := service.GetSourceAnalytics(context.Background())

		assert.Nil(t, result)
		assert.Equal(t, expectedError, err)
	})
}
