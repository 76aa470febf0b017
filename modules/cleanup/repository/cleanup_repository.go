package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartcvnaija/jobbroker/modules/cleanup/model"
)

type CleanupRepository struct {
	pool *pgxpool.Pool
}

func NewCleanupRepository(pool *pgxpool.Pool) *CleanupRepository {
	return &CleanupRepository{pool: pool}
}

func (r *CleanupRepository) Create(ctx context.Context, task *model.CleanupTask) error {
	task.ID = uuid.New().String()
	task.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cleanup_tasks (id, file_path, remind_at, is_done, created_at)
		VALUES ($1, $2, $3, false, $4)
	`, task.ID, task.FilePath, task.RemindAt, task.CreatedAt)
	return err
}

func (r *CleanupRepository) ListDue(ctx context.Context, asOf time.Time) ([]*model.CleanupTask, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, file_path, remind_at, is_done, created_at
		FROM cleanup_tasks WHERE is_done = false AND remind_at <= $1
		ORDER BY remind_at ASC
	`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*model.CleanupTask
	for rows.Next() {
		t := &model.CleanupTask{}
		if err := rows.Scan(&t.ID, &t.FilePath, &t.RemindAt, &t.IsDone, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *CleanupRepository) MarkDone(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE cleanup_tasks SET is_done = true WHERE id = $1`, id)
	return err
}
