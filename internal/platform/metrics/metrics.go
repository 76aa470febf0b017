// Package metrics composes the process, database, and queue probes behind
// C11's /api/metrics and /api/queue/stats endpoints.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/smartcvnaija/jobbroker/internal/platform/postgres"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
)

// Snapshot is the full /api/metrics payload.
type Snapshot struct {
	UptimeSeconds float64             `json:"uptime_seconds"`
	GoRoutines    int                 `json:"goroutines"`
	HeapAllocMB   float64             `json:"heap_alloc_mb"`
	Database      postgres.PoolStatus `json:"database"`
	Queues        []queue.Stats       `json:"queues"`
}

// Collector tracks process start time and holds the dependencies needed to
// build a Snapshot on demand.
type Collector struct {
	startedAt time.Time
	db        *postgres.Client
	queues    *queue.Queue
}

// New builds a Collector. startedAt should be process start time.
func New(db *postgres.Client, queues *queue.Queue, startedAt time.Time) *Collector {
	return &Collector{startedAt: startedAt, db: db, queues: queues}
}

// Collect gathers a fresh Snapshot.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	queueStats, err := c.queues.Stats(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		UptimeSeconds: time.Since(c.startedAt).Seconds(),
		GoRoutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(mem.HeapAlloc) / (1024 * 1024),
		Database:      c.db.PoolStatus(),
		Queues:        queueStats,
	}, nil
}
