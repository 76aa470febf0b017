// Package ratelimit implements the rate limiter (C2) as a fixed-window
// counter, not a sliding window. Each (identifier, action) pair gets its own
// counter key in the KV store; a window rollover is just a key with a fresh
// TTL, not a sorted set, which keeps the hot path to one INCR plus one
// conditional EXPIRE. Calls that straddle a window boundary are counted
// against two separate windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
	"go.uber.org/zap"
)

// Action identifies a rate-limited operation. The table is fixed at compile
// time; callers cannot invent new actions on the fly.
type Action string

const (
	ActionMessage      Action = "message"
	ActionJobSearch    Action = "job_search"
	ActionCVUpload     Action = "cv_upload"
	ActionApplication  Action = "application"
	ActionAICall       Action = "ai_call"
	ActionFileDownload Action = "file_download"
	ActionRecruiterPost Action = "recruiter_post"
)

// limit describes one action's window and allowance.
type limit struct {
	max    int64
	window time.Duration
}

var table = map[Action]limit{
	ActionMessage:      {max: 10, window: 60 * time.Second},
	ActionJobSearch:    {max: 20, window: 300 * time.Second},
	ActionCVUpload:     {max: 3, window: time.Hour},
	ActionApplication:  {max: 50, window: 24 * time.Hour},
	ActionAICall:       {max: 5, window: 60 * time.Second},
	ActionFileDownload: {max: 10, window: 300 * time.Second},
	ActionRecruiterPost: {max: 5, window: time.Hour},
}

// Limiter enforces the per-action limits above against a KV-backed counter.
type Limiter struct {
	store *kv.Store
	log   *zap.Logger
}

// New builds a Limiter over the given KV store.
func New(store *kv.Store, log *zap.Logger) *Limiter {
	return &Limiter{store: store, log: log}
}

// Result is what CheckLimit reports back to a caller deciding whether to
// proceed or to reply with a "slow down" message.
type Result struct {
	Allowed        bool
	Remaining      int64
	ResetInSeconds int64
	Message        string
}

func rateKey(action Action, identifier string) string {
	return fmt.Sprintf("rate:%s:%s", action, identifier)
}

// CheckLimit increments identifier's window counter for action and reports
// whether the call is allowed. On any KV error it fails open — logging the
// error and allowing the request — since a broken rate limiter must never
// become an outage for the conversational flow it protects.
func (l *Limiter) CheckLimit(ctx context.Context, identifier string, action Action) Result {
	lim, ok := table[action]
	if !ok {
		return Result{Allowed: true}
	}

	key := rateKey(action, identifier)
	count, err := l.store.Incr(ctx, key)
	if err != nil {
		l.log.Warn("rate limiter KV error, failing open",
			zap.String("action", string(action)),
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return Result{Allowed: true}
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, lim.window); err != nil {
			l.log.Warn("rate limiter failed to set window TTL",
				zap.String("action", string(action)),
				zap.Error(err),
			)
		}
	}

	remaining := lim.max - count
	if remaining < 0 {
		remaining = 0
	}

	if count > lim.max {
		resetIn := int64(lim.window.Seconds())
		if ttl, err := l.store.TTL(ctx, key); err == nil && ttl > 0 {
			resetIn = int64(ttl.Seconds())
		}
		return Result{
			Allowed:        false,
			Remaining:      0,
			ResetInSeconds: resetIn,
			Message:        fmt.Sprintf("You're sending %s requests too fast — try again in %ds.", action, resetIn),
		}
	}

	return Result{Allowed: true, Remaining: remaining}
}

// Allow is a thin convenience wrapper over CheckLimit for call sites that
// only care about the boolean outcome.
func (l *Limiter) Allow(ctx context.Context, identifier string, action Action) (bool, error) {
	return l.CheckLimit(ctx, identifier, action).Allowed, nil
}

// ClearUserLimits removes every rate-limit counter for identifier, across
// all actions.
func (l *Limiter) ClearUserLimits(ctx context.Context, identifier string) error {
	keys, err := l.store.KeysByPattern(ctx, fmt.Sprintf("rate:*:%s", identifier))
	if err != nil {
		return err
	}
	return l.store.Del(ctx, keys...)
}

// Remaining reports how many more calls identifier may make for action in
// the current window, without consuming one.
func (l *Limiter) Remaining(ctx context.Context, identifier string, action Action) (int64, error) {
	lim, ok := table[action]
	if !ok {
		return -1, nil
	}

	key := rateKey(action, identifier)
	val, found, err := l.store.Get(ctx, key)
	if err != nil {
		return lim.max, err
	}
	if !found {
		return lim.max, nil
	}

	var used int64
	if _, err := fmt.Sscanf(val, "%d", &used); err != nil {
		return lim.max, nil
	}
	remaining := lim.max - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
