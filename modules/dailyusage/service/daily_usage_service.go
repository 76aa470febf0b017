// Package service implements the quota/payment rules the conversation
// orchestrator (C9) and payment webhook (C10) both lean on: does this user
// need to pay before applying, and is a requested deduction safe.
package service

import (
	"context"

	"github.com/smartcvnaija/jobbroker/internal/config"
	"github.com/smartcvnaija/jobbroker/modules/dailyusage/model"
	"github.com/smartcvnaija/jobbroker/modules/dailyusage/ports"
)

type DailyUsageService struct {
	repo  ports.DailyUsageRepository
	tiers map[string]int
}

func NewDailyUsageService(repo ports.DailyUsageRepository, payment config.PaymentConfig) *DailyUsageService {
	return &DailyUsageService{repo: repo, tiers: payment.Tiers}
}

// NeedsPayment reports whether userIdentifier must pay before applying to
// requested more jobs: true when there is no row for today, or the stored
// remaining count cannot cover the request.
func (s *DailyUsageService) NeedsPayment(ctx context.Context, userIdentifier string, requested int) (bool, *model.DailyUsage, error) {
	row, found, err := s.repo.GetToday(ctx, userIdentifier)
	if err != nil {
		return false, nil, err
	}
	if !found {
		return true, nil, nil
	}
	if row.ApplicationsRemaining < requested {
		return true, row, nil
	}
	return false, row, nil
}

// Remaining reports the caller's current remaining count, or 0 if no row
// exists for today.
func (s *DailyUsageService) Remaining(ctx context.Context, userIdentifier string) (int, error) {
	row, found, err := s.repo.GetToday(ctx, userIdentifier)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return row.ApplicationsRemaining, nil
}

// GrantTier resolves tierName against the configured amount table and
// upserts today's quota row, completing the payment.
func (s *DailyUsageService) GrantTier(ctx context.Context, userIdentifier, tierName, paymentReference string) error {
	quota, ok := s.tiers[tierName]
	if !ok {
		quota = s.tiers["BASIC"]
	}
	return s.repo.Grant(ctx, userIdentifier, quota, paymentReference)
}

// Deduct atomically reserves n applications from today's quota. ok=false
// means the caller must not enqueue the application job.
func (s *DailyUsageService) Deduct(ctx context.Context, userIdentifier string, n int) (bool, error) {
	return s.repo.Deduct(ctx, userIdentifier, n)
}
