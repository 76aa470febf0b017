// Package conversation implements the per-message finite-state machine
// (C9): it reads and writes every session key named in the data model,
// resolves intent via internal/intent, and dispatches to the messaging
// gateway, the queue fabric, and the daily-usage quota service.
package conversation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smartcvnaija/jobbroker/internal/intent"
	"github.com/smartcvnaija/jobbroker/internal/platform/kv"
)

// State is the conversation's current step, stored at state:{id}.
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingCoverLetter State = "awaiting_cover_letter"
	StateBrowsingJobs        State = "browsing_jobs"
	StateApplying            State = "applying"
)

const sessionTTL = 24 * time.Hour
const conversationWindow = 10

// JobSummary is one entry of last_jobs:{id}, enough to resolve a positional
// "apply 2,3" reference and to format a reply without another DB round trip.
type JobSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company"`
	State   string `json:"state"`
}

// Session wraps C1 with the typed accessors the orchestrator needs; every
// method is a thin Get/Set pair over one of the keys in the data model.
type Session struct {
	store *kv.Store
}

func NewSession(store *kv.Store) *Session {
	return &Session{store: store}
}

func (s *Session) State(ctx context.Context, id string) (State, error) {
	val, ok, err := s.store.Get(ctx, "state:"+id)
	if err != nil {
		return StateIdle, err
	}
	if !ok {
		return StateIdle, nil
	}
	return State(val), nil
}

func (s *Session) SetState(ctx context.Context, id string, state State) error {
	return s.store.Set(ctx, "state:"+id, string(state), sessionTTL)
}

func (s *Session) CVText(ctx context.Context, id string) (string, bool, error) {
	return s.store.Get(ctx, "cv_text:"+id)
}

func (s *Session) CVFile(ctx context.Context, id string) (string, bool, error) {
	return s.store.Get(ctx, "cv_file:"+id)
}

func (s *Session) HasCV(ctx context.Context, id string) (bool, error) {
	return s.store.Exists(ctx, "cv:"+id)
}

func (s *Session) CoverLetter(ctx context.Context, id string) (string, bool, error) {
	return s.store.Get(ctx, "cover_letter:"+id)
}

func (s *Session) SetCoverLetter(ctx context.Context, id, text string) error {
	return s.store.Set(ctx, "cover_letter:"+id, text, sessionTTL)
}

func (s *Session) Email(ctx context.Context, id string) (string, bool, error) {
	return s.store.Get(ctx, "email:"+id)
}

func (s *Session) SetEmail(ctx context.Context, id, email string) error {
	return s.store.Set(ctx, "email:"+id, email, sessionTTL)
}

func (s *Session) LastJobs(ctx context.Context, id string) ([]JobSummary, error) {
	raw, ok, err := s.store.Get(ctx, "last_jobs:"+id)
	if err != nil || !ok {
		return nil, err
	}
	var jobs []JobSummary
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		return nil, nil
	}
	return jobs, nil
}

func (s *Session) SetLastJobs(ctx context.Context, id string, jobs []JobSummary) error {
	raw, err := json.Marshal(jobs)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, "last_jobs:"+id, string(raw), time.Hour)
}

func (s *Session) PendingJobs(ctx context.Context, id string) ([]string, error) {
	raw, ok, err := s.store.Get(ctx, "pending_jobs:"+id)
	if err != nil || !ok {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, nil
	}
	return ids, nil
}

func (s *Session) SetPendingJobs(ctx context.Context, id string, jobIDs []string) error {
	raw, err := json.Marshal(jobIDs)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, "pending_jobs:"+id, string(raw), sessionTTL)
}

func (s *Session) ClearPendingJobs(ctx context.Context, id string) error {
	return s.store.Del(ctx, "pending_jobs:"+id)
}

// Conversation returns the rolling window of turns, oldest first.
func (s *Session) Conversation(ctx context.Context, id string) ([]intent.Turn, error) {
	raw, ok, err := s.store.Get(ctx, "conversation:"+id)
	if err != nil || !ok {
		return nil, err
	}
	var turns []intent.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, nil
	}
	return turns, nil
}

// AppendTurn records one (role, content) exchange, trimming the window to
// the last ten turns for AI context.
func (s *Session) AppendTurn(ctx context.Context, id, role, content string) error {
	turns, err := s.Conversation(ctx, id)
	if err != nil {
		return err
	}
	turns = append(turns, intent.Turn{Role: role, Content: content, Timestamp: time.Now().UTC()})
	if len(turns) > conversationWindow {
		turns = turns[len(turns)-conversationWindow:]
	}
	raw, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, "conversation:"+id, string(raw), sessionTTL)
}

// Reset purges the per-identifier CV, cover-letter, state and job-list
// keys. The rolling conversation window, the message dedup markers, the
// stored email and the rate-limit counters are left in place.
func (s *Session) Reset(ctx context.Context, id string) error {
	return s.store.Del(ctx,
		"cv:"+id, "cv_text:"+id, "cv_file:"+id,
		"cover_letter:"+id, "state:"+id,
		"last_jobs:"+id, "pending_jobs:"+id,
	)
}

// AlreadyProcessed checks and sets the msg:{messageId} dedup marker
// atomically enough for this use: Exists then Set is fine since duplicate
// webhook deliveries of the exact same message-id are the only concern, not
// a tight race between two distinct messages.
func (s *Session) AlreadyProcessed(ctx context.Context, messageID string) (bool, error) {
	exists, err := s.store.Exists(ctx, "msg:"+messageID)
	if err != nil || exists {
		return exists, err
	}
	return false, s.store.Set(ctx, "msg:"+messageID, "1", time.Hour)
}
