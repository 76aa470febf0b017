// Package queue implements the queue fabric (C4): named, durable,
// Redis-backed job queues with per-queue concurrency, retries, timeouts,
// stalled-job recovery, progress reporting, and short-TTL result mirroring
// into the KV store. The worker-loop shape (per-job cancellable context,
// non-blocking subscriber notify, a dedicated stalled-job sweep) is the same
// one an in-memory channel queue uses; the difference here is that the
// backlog itself lives in Redis lists so a worker restart never drops a job.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/smartcvnaija/jobbroker/internal/config"
	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	"github.com/smartcvnaija/jobbroker/internal/platform/redis"
	"go.uber.org/zap"
)

// Well-known queue names (spec §4.4 / §3).
const (
	QueueOpenAITasks            = "openai-tasks"
	QueueCVProcessing           = "cv-processing"
	QueueCVProcessingBackground = "cv-processing-background"
	QueueJobApplications        = "job-applications"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// ErrJobNotFound is returned when a job ID has no record.
var ErrJobNotFound = errors.New("queue: job not found")

// Job is the durable record stored alongside a queued payload.
type Job struct {
	ID        string    `json:"id"`
	Queue     string     `json:"queue"`
	Payload   string    `json:"payload"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error,omitempty"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Handler processes one job's payload. Returning an error marks the job
// failed (after retries are exhausted) or re-queues it for another attempt.
type Handler func(ctx context.Context, job *Job) (result string, err error)

// queueConfig is the resolved per-queue behavior.
type queueConfig struct {
	concurrency int
	maxRetries  int
	timeout     time.Duration
	handler     Handler
}

// Queue is a single Redis connection shared by every named queue, plus one
// worker pool per registered queue name.
type Queue struct {
	client *redis.Client
	kv     *kv.Store
	cfg    config.QueueConfig
	log    *zap.Logger

	mu       sync.RWMutex
	queues   map[string]*queueConfig
	cancels  map[string]context.CancelFunc
	subs     map[string][]chan ProgressEvent
	subsMu   sync.RWMutex
}

// ProgressEvent is published to subscribers as a job moves through its
// lifecycle (used by the conversational flow to narrate progress).
type ProgressEvent struct {
	JobID    string
	Status   Status
	Progress int
	Result   string
	Error    string
}

// New builds a Queue fabric over a Redis connection reserved for queue
// internals (see config.RedisConfig.QueueDB) and the shared KV store used
// for short-TTL result mirroring.
func New(client *redis.Client, kvStore *kv.Store, cfg config.QueueConfig, log *zap.Logger) *Queue {
	return &Queue{
		client:  client,
		kv:      kvStore,
		cfg:     cfg,
		log:     log,
		queues:  make(map[string]*queueConfig),
		cancels: make(map[string]context.CancelFunc),
		subs:    make(map[string][]chan ProgressEvent),
	}
}

// RegisterHandler declares a named queue's worker behavior. concurrency <= 0
// falls back to cfg.Concurrency; maxRetries < 0 falls back to cfg.MaxRetries.
func (q *Queue) RegisterHandler(name string, concurrency, maxRetries int, timeout time.Duration, handler Handler) {
	if concurrency <= 0 {
		concurrency = q.cfg.Concurrency
	}
	if maxRetries < 0 {
		maxRetries = q.cfg.MaxRetries
	}
	if timeout <= 0 {
		timeout = q.cfg.JobTimeout
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queues[name] = &queueConfig{
		concurrency: concurrency,
		maxRetries:  maxRetries,
		timeout:     timeout,
		handler:     handler,
	}
}

// Enqueue durably records a new job and pushes its ID onto the named queue's
// work list.
func (q *Queue) Enqueue(ctx context.Context, queueName, payload string) (*Job, error) {
	id := fmt.Sprintf("%s-%s", queueName, uuid.NewString())
	job := &Job{
		ID:        id,
		Queue:     queueName,
		Payload:   payload,
		Status:    StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := q.save(ctx, job); err != nil {
		return nil, fmt.Errorf("queue: save job: %w", err)
	}
	if err := q.client.LPush(ctx, listKey(queueName), id).Err(); err != nil {
		return nil, fmt.Errorf("queue: push job: %w", err)
	}
	return job, nil
}

// Start launches the registered worker pools and the stalled-job sweep.
// Cancelling ctx stops every worker and the sweep.
func (q *Queue) Start(ctx context.Context) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for name, cfg := range q.queues {
		for i := 0; i < cfg.concurrency; i++ {
			go q.runWorker(ctx, name, cfg)
		}
	}
	go q.runStalledSweep(ctx)
}

// Cancel cancels an in-flight job by ID. Returns true if a running job was
// found and cancelled; a queued-but-not-yet-picked-up job is not affected.
func (q *Queue) Cancel(jobID string) bool {
	q.mu.Lock()
	cancel, ok := q.cancels[jobID]
	q.mu.Unlock()
	if ok {
		cancel()
		return true
	}
	return false
}

// Subscribe returns a buffered channel of progress events for jobID.
func (q *Queue) Subscribe(jobID string) chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)
	q.subsMu.Lock()
	q.subs[jobID] = append(q.subs[jobID], ch)
	q.subsMu.Unlock()
	return ch
}

// Unsubscribe removes a previously subscribed channel.
func (q *Queue) Unsubscribe(jobID string, ch chan ProgressEvent) {
	q.subsMu.Lock()
	defer q.subsMu.Unlock()
	chans := q.subs[jobID]
	for i, c := range chans {
		if c == ch {
			q.subs[jobID] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(q.subs[jobID]) == 0 {
		delete(q.subs, jobID)
	}
}

// Get loads a job's current durable record.
func (q *Queue) Get(ctx context.Context, jobID string) (*Job, error) {
	raw, err := q.client.Get(ctx, jobKey(jobID)).Result()
	if err == goredis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateProgress sets a job's progress percentage and notifies subscribers.
func (q *Queue) UpdateProgress(ctx context.Context, jobID string, progress int) error {
	job, err := q.Get(ctx, jobID)
	if err != nil {
		return err
	}
	job.Progress = progress
	job.UpdatedAt = time.Now()
	if err := q.save(ctx, job); err != nil {
		return err
	}
	q.notify(jobID, ProgressEvent{JobID: jobID, Status: job.Status, Progress: progress})
	return nil
}

// Stats reports per-queue backlog depth for C11's /api/queue/stats.
type Stats struct {
	Queue     string `json:"queue"`
	Backlog   int64  `json:"backlog"`
	Processing int64 `json:"processing"`
}

// Stats returns a snapshot of every registered queue's backlog and
// in-flight counts.
func (q *Queue) Stats(ctx context.Context) ([]Stats, error) {
	q.mu.RLock()
	names := make([]string, 0, len(q.queues))
	for name := range q.queues {
		names = append(names, name)
	}
	q.mu.RUnlock()

	out := make([]Stats, 0, len(names))
	for _, name := range names {
		backlog, err := q.client.LLen(ctx, listKey(name)).Result()
		if err != nil {
			return nil, err
		}
		processing, err := q.client.ZCard(ctx, processingKey(name)).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, Stats{Queue: name, Backlog: backlog, Processing: processing})
	}
	return out, nil
}

func (q *Queue) runWorker(ctx context.Context, name string, cfg *queueConfig) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := q.client.BRPop(ctx, 5*time.Second, listKey(name)).Result()
		if err == goredis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.log.Error("queue: BRPOP failed", zap.String("queue", name), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		jobID := res[1]
		q.processJob(ctx, name, cfg, jobID)
	}
}

func (q *Queue) processJob(ctx context.Context, name string, cfg *queueConfig, jobID string) {
	job, err := q.Get(ctx, jobID)
	if err != nil {
		q.log.Error("queue: job lookup failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}
	if job.Status == StatusCancelled {
		return
	}

	job.Status = StatusProcessing
	job.Attempts++
	job.UpdatedAt = time.Now()
	if err := q.save(ctx, job); err != nil {
		q.log.Error("queue: mark processing failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}
	if err := q.client.ZAdd(ctx, processingKey(name), goredis.Z{Score: float64(time.Now().Unix()), Member: jobID}).Err(); err != nil {
		q.log.Warn("queue: failed to record processing heartbeat", zap.Error(err))
	}
	q.notify(jobID, ProgressEvent{JobID: jobID, Status: StatusProcessing})

	jobCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	q.mu.Lock()
	q.cancels[jobID] = cancel
	q.mu.Unlock()

	result, runErr := cfg.handler(jobCtx, job)
	cancel()

	q.mu.Lock()
	delete(q.cancels, jobID)
	q.mu.Unlock()
	q.client.ZRem(ctx, processingKey(name), jobID)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			q.finish(ctx, job, StatusCancelled, "", "cancelled")
			return
		}
		if job.Attempts <= cfg.maxRetries {
			job.Status = StatusQueued
			job.Error = runErr.Error()
			job.UpdatedAt = time.Now()
			if err := q.save(ctx, job); err == nil {
				q.client.LPush(ctx, listKey(name), jobID)
			}
			q.notify(jobID, ProgressEvent{JobID: jobID, Status: StatusQueued, Error: runErr.Error()})
			return
		}
		q.finish(ctx, job, StatusFailed, "", runErr.Error())
		return
	}

	q.finish(ctx, job, StatusCompleted, result, "")
}

func (q *Queue) finish(ctx context.Context, job *Job, status Status, result, errMsg string) {
	job.Status = status
	job.Result = result
	job.Error = errMsg
	job.Progress = 100
	job.UpdatedAt = time.Now()
	if err := q.save(ctx, job); err != nil {
		q.log.Error("queue: finalize job failed", zap.String("job_id", job.ID), zap.Error(err))
	}

	// Mirror the terminal result into KV with a short TTL so the
	// conversational flow can poll it without hitting Redis's queue DB.
	mirror, _ := json.Marshal(job)
	_ = q.kv.Set(ctx, fmt.Sprintf("job:result:%s", job.ID), string(mirror), q.cfg.ResultTTL)

	q.notify(job.ID, ProgressEvent{JobID: job.ID, Status: status, Progress: 100, Result: result, Error: errMsg})
}

func (q *Queue) runStalledSweep(ctx context.Context) {
	ticker := time.NewTicker(q.cfg.StalledInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.sweepOnce(ctx)
		}
	}
}

func (q *Queue) sweepOnce(ctx context.Context) {
	q.mu.RLock()
	names := make([]string, 0, len(q.queues))
	for name := range q.queues {
		names = append(names, name)
	}
	q.mu.RUnlock()

	cutoff := float64(time.Now().Add(-q.cfg.StalledThreshold).Unix())
	for _, name := range names {
		stalled, err := q.client.ZRangeByScore(ctx, processingKey(name), &goredis.ZRangeBy{
			Min: "0", Max: fmt.Sprintf("%f", cutoff),
		}).Result()
		if err != nil {
			q.log.Error("queue: stalled sweep failed", zap.String("queue", name), zap.Error(err))
			continue
		}
		for _, jobID := range stalled {
			q.client.ZRem(ctx, processingKey(name), jobID)
			job, err := q.Get(ctx, jobID)
			if err != nil {
				continue
			}
			cfg := q.queues[name]
			if job.Attempts <= cfg.maxRetries {
				job.Status = StatusQueued
				job.Error = "recovered after stall"
				_ = q.save(ctx, job)
				q.client.LPush(ctx, listKey(name), jobID)
				q.log.Warn("queue: recovered stalled job", zap.String("job_id", jobID), zap.String("queue", name))
			} else {
				q.finish(ctx, job, StatusFailed, "", "stalled past max retries")
			}
		}
	}
}

func (q *Queue) save(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.Set(ctx, jobKey(job.ID), raw, 24*time.Hour).Err()
}

func (q *Queue) notify(jobID string, event ProgressEvent) {
	q.subsMu.RLock()
	defer q.subsMu.RUnlock()
	for _, ch := range q.subs[jobID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func listKey(queueName string) string       { return fmt.Sprintf("queue:list:%s", queueName) }
func processingKey(queueName string) string { return fmt.Sprintf("queue:processing:%s", queueName) }
func jobKey(jobID string) string            { return fmt.Sprintf("queue:job:%s", jobID) }
