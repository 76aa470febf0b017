package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/smartcvnaija/jobbroker/internal/platform/ai"
	"go.uber.org/zap"
)

const stage2System = `You are the intent classifier for a WhatsApp job-search assistant used by Nigerian jobseekers.
Classify the user's latest message into exactly one JSON object, no prose, no markdown fences:
{"action":"about_service|chat|search_jobs|clarify|help|greeting|status|reset|apply_job|unknown","response":"<string, only for chat/clarify/about_service/greeting>","filters":{"title":"<string>","location":"<string>","remote":false},"apply_all":false,"job_numbers":[1,2]}
Use the recent conversation turns for context when the latest message is a short follow-up (e.g. "yes", "the second one").
Only set filters when action is "search_jobs". Only set job_numbers/apply_all when action is "apply_job".`

// stage2Result mirrors the JSON shape the model is asked to return; it is
// never exposed outside this file — resolveStage2 converts it to Intent.
type stage2Result struct {
	Action     string   `json:"action"`
	Response   string   `json:"response"`
	Filters    *Filters `json:"filters"`
	ApplyAll   bool     `json:"apply_all"`
	JobNumbers []int    `json:"job_numbers"`
}

// resolveStage2 asks the AI router to classify text, falling back to the
// deterministic fallbackIntent (which may ask a clarifying question) if
// every provider fails or returns unparseable JSON. history supplies short-term context; only the last six
// turns are sent to bound prompt size.
func resolveStage2(ctx context.Context, router *ai.Router, log *zap.Logger, text string, history []Turn) *Intent {
	prompt := buildStage2Prompt(text, history)
	resp, err := router.Complete(ctx, ai.Request{
		System:    stage2System,
		User:      prompt,
		JSONMode:  true,
		MaxTokens: 400,
	})
	if err != nil {
		log.Warn("intent: stage2 AI call failed, using fallback", zap.Error(err))
		return fallbackIntent(text, history)
	}

	result, ok := parseStage2JSON(resp.Text)
	if !ok {
		log.Warn("intent: stage2 returned unparseable JSON", zap.String("raw", resp.Text))
		return fallbackIntent(text, history)
	}

	return &Intent{
		Action:     Action(result.Action),
		Response:   result.Response,
		Filters:    result.Filters,
		ApplyAll:   result.ApplyAll,
		JobNumbers: result.JobNumbers,
		Source:     "stage2",
	}
}

func buildStage2Prompt(text string, history []Turn) string {
	start := 0
	if len(history) > 6 {
		start = len(history) - 6
	}
	var sb strings.Builder
	for _, turn := range history[start:] {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("user: ")
	sb.WriteString(text)
	return sb.String()
}

// parseStage2JSON strips a code fence the model sometimes wraps its answer
// in before unmarshaling; returns ok=false on malformed JSON.
func parseStage2JSON(raw string) (stage2Result, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result stage2Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return stage2Result{}, false
	}
	if result.Action == "" {
		return stage2Result{}, false
	}
	return result, true
}

// fallbackIntent produces a deterministic, non-AI response when stage 2 is
// unreachable, favoring a generic chat reply that keeps the conversation
// alive rather than erroring out to the user.
func fallbackIntent(text string, history []Turn) *Intent {
	if mentionsRecently(history, "job", "work", "vacancy", "hire") {
		return &Intent{
			Action:   ActionClarify,
			Response: "I'm having trouble understanding right now — could you tell me the job title and state you're interested in?",
			Source:   "fallback",
		}
	}
	return &Intent{
		Action:   ActionChat,
		Response: "I'm here to help you find and apply for jobs in Nigeria. Tell me a job title and location to get started, or type \"help\".",
		Source:   "fallback",
	}
}
