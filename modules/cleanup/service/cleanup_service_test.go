package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartcvnaija/jobbroker/modules/cleanup/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errListDueFailed = errors.New("db down")

type mockCleanupRepository struct {
	createFunc   func(ctx context.Context, task *model.CleanupTask) error
	listDueFunc  func(ctx context.Context, asOf time.Time) ([]*model.CleanupTask, error)
	markDoneFunc func(ctx context.Context, id string) error
}

func (m *mockCleanupRepository) Create(ctx context.Context, task *model.CleanupTask) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	return nil
}
func (m *mockCleanupRepository) ListDue(ctx context.Context, asOf time.Time) ([]*model.CleanupTask, error) {
	if m.listDueFunc != nil {
		return m.listDueFunc(ctx, asOf)
	}
	return nil, nil
}
func (m *mockCleanupRepository) MarkDone(ctx context.Context, id string) error {
	if m.markDoneFunc != nil {
		return m.markDoneFunc(ctx, id)
	}
	return nil
}

func TestCleanupService_Schedule(t *testing.T) {
	var stored *model.CleanupTask
	repo := &mockCleanupRepository{
		createFunc: func(ctx context.Context, task *model.CleanupTask) error {
			stored = task
			return nil
		},
	}
	svc := NewCleanupService(repo, zap.NewNop())

	before := time.Now().UTC()
	err := svc.Schedule(context.Background(), "uploads/cv-1.pdf", time.Hour)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "uploads/cv-1.pdf", stored.FilePath)
	assert.True(t, stored.RemindAt.After(before.Add(55*time.Minute)))
}

func TestCleanupService_RunDue(t *testing.T) {
	t.Run("deletes each due file and marks it done", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cv-1.pdf")
		require.NoError(t, os.WriteFile(path, []byte("pdf bytes"), 0o644))

		var markedDone string
		repo := &mockCleanupRepository{
			listDueFunc: func(ctx context.Context, asOf time.Time) ([]*model.CleanupTask, error) {
				return []*model.CleanupTask{{ID: "task-1", FilePath: path}}, nil
			},
			markDoneFunc: func(ctx context.Context, id string) error {
				markedDone = id
				return nil
			},
		}
		svc := NewCleanupService(repo, zap.NewNop())

		svc.RunDue(context.Background())

		assert.Equal(t, "task-1", markedDone)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("still marks the task done when the file is already gone", func(t *testing.T) {
		var markedDone string
		repo := &mockCleanupRepository{
			listDueFunc: func(ctx context.Context, asOf time.Time) ([]*model.CleanupTask, error) {
				return []*model.CleanupTask{{ID: "task-1", FilePath: "/nonexistent/cv-1.pdf"}}, nil
			},
			markDoneFunc: func(ctx context.Context, id string) error {
				markedDone = id
				return nil
			},
		}
		svc := NewCleanupService(repo, zap.NewNop())

		svc.RunDue(context.Background())

		assert.Equal(t, "task-1", markedDone)
	})

	t.Run("does nothing when listing due tasks fails", func(t *testing.T) {
		var markDoneCalled bool
		repo := &mockCleanupRepository{
			listDueFunc: func(ctx context.Context, asOf time.Time) ([]*model.CleanupTask, error) {
				return nil, errListDueFailed
			},
			markDoneFunc: func(ctx context.Context, id string) error {
				markDoneCalled = true
				return nil
			},
		}
		svc := NewCleanupService(repo, zap.NewNop())

		svc.RunDue(context.Background())

		assert.False(t, markDoneCalled)
	})
}
