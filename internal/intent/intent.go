// Package intent implements the two-stage resolver (C6): a fast local
// pattern matcher first, an AI-backed classifier second. Every result is
// represented as the Intent tagged variant below — no untyped map crosses
// the resolver boundary, per the spec's re-architecture note on AI response
// schema variance.
package intent

import "time"

// Action is the tagged variant discriminator.
type Action string

const (
	ActionAbout      Action = "about_service"
	ActionChat       Action = "chat"
	ActionSearchJobs Action = "search_jobs"
	ActionClarify    Action = "clarify"
	ActionHelp       Action = "help"
	ActionGreeting   Action = "greeting"
	ActionStatus     Action = "status"
	ActionReset      Action = "reset"
	ActionApplyJob   Action = "apply_job"
	ActionUnknown    Action = "unknown"
)

// Filters narrows a search_jobs intent.
type Filters struct {
	Title    string `json:"title,omitempty"`
	Location string `json:"location,omitempty"`
	Remote   bool   `json:"remote,omitempty"`
}

// Intent is the resolver's sole output type: a tagged variant over every
// action the conversation orchestrator (C9) knows how to dispatch.
type Intent struct {
	Action     Action   `json:"action"`
	Response   string   `json:"response,omitempty"`
	Filters    *Filters `json:"filters,omitempty"`
	ApplyAll   bool     `json:"apply_all,omitempty"`
	JobNumbers []int    `json:"job_numbers,omitempty"`
	Source     string   `json:"-"` // "stage1" | "stage2" | "fallback", for logging only
}

// Turn is one exchange in the rolling conversation window kept in session
// (conversation:{id}), used as AI context and for stage-1/stage-2
// disambiguation.
type Turn struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
