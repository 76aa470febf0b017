// Package service runs the cleanup scheduler: a bounded sweep over due
// cleanup_tasks rows, deleting the CV binary each one points at. Deletion
// is best-effort, not transactional — a failed os.Remove still marks the
// row done, since the worst outcome is a stray file, never a stuck queue.
package service

import (
	"context"
	"os"
	"time"

	"github.com/smartcvnaija/jobbroker/modules/cleanup/model"
	"github.com/smartcvnaija/jobbroker/modules/cleanup/ports"
	"go.uber.org/zap"
)

type CleanupService struct {
	repo ports.CleanupRepository
	log  *zap.Logger
}

func NewCleanupService(repo ports.CleanupRepository, log *zap.Logger) *CleanupService {
	return &CleanupService{repo: repo, log: log}
}

// Schedule records that filePath should be deleted after delay elapses.
// Called by the application worker (C8) once it has sent or failed every
// recruiter email for a CV binary.
func (s *CleanupService) Schedule(ctx context.Context, filePath string, delay time.Duration) error {
	return s.repo.Create(ctx, &model.CleanupTask{
		FilePath: filePath,
		RemindAt: time.Now().UTC().Add(delay),
	})
}

// RunDue deletes every due, not-yet-done task's file and marks it done.
// Safe to call repeatedly — os.Remove on an already-deleted path is
// tolerated (ErrNotExist is not treated as a failure worth logging loudly).
func (s *CleanupService) RunDue(ctx context.Context) {
	tasks, err := s.repo.ListDue(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("cleanup: failed to list due tasks", zap.Error(err))
		return
	}
	for _, task := range tasks {
		if err := os.Remove(task.FilePath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("cleanup: failed to delete file", zap.String("path", task.FilePath), zap.Error(err))
		}
		if err := s.repo.MarkDone(ctx, task.ID); err != nil {
			s.log.Error("cleanup: failed to mark task done", zap.String("task_id", task.ID), zap.Error(err))
		}
	}
}

// Start runs RunDue once, then launches a ticker loop that runs it every
// interval until ctx is cancelled. Call once at process boot — the first,
// immediate RunDue performs the "rebuilt at startup by querying" recovery.
func (s *CleanupService) Start(ctx context.Context, interval time.Duration) {
	s.RunDue(ctx)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunDue(ctx)
			}
		}
	}()
}
