// Package worker hosts the two queue-backed background workers: the CV
// worker (C7), which turns an uploaded binary into cleaned text and session
// metadata, and the application worker (C8), which turns a validated CV and
// a job list into recruiter emails. Both are registered as queue.Handler
// functions against internal/platform/queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/smartcvnaija/jobbroker/internal/platform/cvtext"
	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
	"go.uber.org/zap"
)

const (
	minCVBytes = 100
	maxCVBytes = 5 * 1024 * 1024
	minCleanedTextLen = 50
)

// CVJobPayload is what the conversation orchestrator enqueues onto
// cv-processing after downloading an inbound document; a job on
// cv-processing-background carries the same payload.
type CVJobPayload struct {
	Identifier   string `json:"identifier"`
	Data         []byte `json:"data"`
	OriginalName string `json:"original_name"`
}

// CVMetadata is the structured record written to cv:{id} once extraction
// succeeds.
type CVMetadata struct {
	Filename        string    `json:"filename"`
	Path            string    `json:"path"`
	MimeType        string    `json:"mime_type"`
	SizeBytes       int       `json:"size_bytes"`
	CleanedTextLen  int       `json:"cleaned_text_len"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

// CVWorker implements the C7 handler.
type CVWorker struct {
	kv         *kv.Store
	log        *zap.Logger
	uploadsDir string
	governor   *MemoryGovernor
}

func NewCVWorker(store *kv.Store, uploadsDir string, governor *MemoryGovernor, log *zap.Logger) *CVWorker {
	return &CVWorker{kv: store, log: log, uploadsDir: uploadsDir, governor: governor}
}

// Handle is the queue.Handler for both cv-processing and
// cv-processing-background; the two queues share behavior and differ only
// in concurrency/priority.
func (w *CVWorker) Handle(ctx context.Context, job *queue.Job) (string, error) {
	if w.governor != nil && w.governor.Overloaded() {
		return "", fmt.Errorf("cv worker: memory governor refused new job")
	}

	var payload CVJobPayload
	if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
		return "", fmt.Errorf("cv worker: bad payload: %w", err)
	}

	size := len(payload.Data)
	if size < minCVBytes || size > maxCVBytes {
		w.notifyFailure(ctx, payload.Identifier, "size_out_of_range", size, job.ID)
		return "", fmt.Errorf("cv worker: size %d outside [%d,%d]", size, minCVBytes, maxCVBytes)
	}

	text, format, err := cvtext.Extract(payload.Data)
	if err != nil {
		w.notifyFailure(ctx, payload.Identifier, "extraction_failed", size, job.ID)
		return "", fmt.Errorf("cv worker: extract: %w", err)
	}
	if len(text) < minCleanedTextLen {
		w.notifyFailure(ctx, payload.Identifier, "text_too_short", size, job.ID)
		return "", fmt.Errorf("cv worker: cleaned text too short (%d chars)", len(text))
	}

	ext := string(format)
	safeID := safeFileID(payload.Identifier)
	filename := fmt.Sprintf("cv_%s_%d.%s", safeID, time.Now().UnixMilli(), ext)
	path := filepath.Join(w.uploadsDir, filename)
	if err := os.WriteFile(path, payload.Data, 0o600); err != nil {
		return "", fmt.Errorf("cv worker: persist file: %w", err)
	}

	meta := CVMetadata{
		Filename:       payload.OriginalName,
		Path:           path,
		MimeType:       mimeForFormat(format),
		SizeBytes:      size,
		CleanedTextLen: len(text),
		UploadedAt:     time.Now().UTC(),
	}
	metaJSON, _ := json.Marshal(meta)

	const sessionTTL = 24 * time.Hour
	if err := w.kv.Set(ctx, "cv:"+payload.Identifier, string(metaJSON), sessionTTL); err != nil {
		return "", fmt.Errorf("cv worker: write cv metadata: %w", err)
	}
	if err := w.kv.Set(ctx, "cv_text:"+payload.Identifier, text, sessionTTL); err != nil {
		return "", fmt.Errorf("cv worker: write cv text: %w", err)
	}
	if err := w.kv.Set(ctx, "cv_file:"+payload.Identifier, filename, sessionTTL); err != nil {
		return "", fmt.Errorf("cv worker: write cv filename: %w", err)
	}

	return string(metaJSON), nil
}

func (w *CVWorker) notifyFailure(ctx context.Context, identifier, class string, size int, jobID string) {
	w.log.Warn("cv worker: job failed",
		zap.String("identifier", maskIdentifier(identifier)),
		zap.String("failure_class", class),
		zap.Int("size_bytes", size),
		zap.String("job_id", jobID),
	)
}

func maskIdentifier(id string) string {
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}

func mimeForFormat(f cvtext.Format) string {
	switch f {
	case cvtext.FormatPDF:
		return "application/pdf"
	case cvtext.FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

func safeFileID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MemoryGovernor samples heap usage every 5s and refuses new CV jobs once
// usage crosses the hard threshold, giving the process a chance to recover
// via a forced GC instead of OOMing under a burst of large uploads.
type MemoryGovernor struct {
	log           *zap.Logger
	softThreshold float64
	hardThreshold float64
	hardAbsolute  uint64

	overloaded atomic.Bool
}

func NewMemoryGovernor(log *zap.Logger) *MemoryGovernor {
	return &MemoryGovernor{
		log:           log,
		softThreshold: 0.75,
		hardThreshold: 0.90,
		hardAbsolute:  3 * 1024 * 1024 * 1024,
	}
}

// Overloaded reports the last-sampled state; cheap enough to call per job.
func (g *MemoryGovernor) Overloaded() bool {
	return g.overloaded.Load()
}

// Start launches the 5s sampling loop until ctx is cancelled.
func (g *MemoryGovernor) Start(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.sample()
			}
		}
	}()
}

func (g *MemoryGovernor) sample() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	heapLimit := g.hardAbsolute
	usage := float64(mem.HeapAlloc) / float64(heapLimit)

	switch {
	case mem.HeapAlloc >= g.hardAbsolute || usage >= g.hardThreshold:
		if !g.overloaded.Swap(true) {
			g.log.Warn("cv worker: memory governor tripped, refusing new jobs", zap.Uint64("heap_alloc", mem.HeapAlloc))
		}
		runtime.GC()
	case usage >= g.softThreshold:
		g.overloaded.Store(false)
		g.log.Warn("cv worker: memory usage above soft threshold", zap.Uint64("heap_alloc", mem.HeapAlloc))
	default:
		g.overloaded.Store(false)
	}
}
