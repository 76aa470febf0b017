package intent

import (
	"regexp"
	"strconv"
	"strings"

	tagmodel "github.com/smartcvnaija/jobbroker/modules/tags/model"
)

var greetingWords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "howdy": true,
	"good morning": true, "good afternoon": true, "good evening": true,
}

var applyAllPattern = regexp.MustCompile(`^apply\s+all$`)
var applyNPattern = regexp.MustCompile(`^apply\s+([\d,\s]+)$`)
var applyBarePattern = regexp.MustCompile(`^apply$`)

// resolveStage1 is the fast local pattern matcher: single-word commands,
// positional apply shortcuts, and a job-title-to-category guess. ok=false
// means stage 2 (AI) must be consulted.
func resolveStage1(text string, history []Turn) (*Intent, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return nil, false
	}

	switch trimmed {
	case "reset", "start over", "restart":
		return &Intent{Action: ActionReset, Source: "stage1"}, true
	case "status", "my status", "quota":
		return &Intent{Action: ActionStatus, Source: "stage1"}, true
	case "help", "menu", "commands":
		return &Intent{Action: ActionHelp, Source: "stage1"}, true
	}
	if greetingWords[trimmed] {
		return &Intent{Action: ActionGreeting, Source: "stage1"}, true
	}

	if applyBarePattern.MatchString(trimmed) {
		return &Intent{Action: ActionApplyJob, ApplyAll: true, Source: "stage1"}, true
	}
	if applyAllPattern.MatchString(trimmed) {
		return &Intent{Action: ActionApplyJob, ApplyAll: true, Source: "stage1"}, true
	}
	if m := applyNPattern.FindStringSubmatch(trimmed); m != nil {
		numbers := parseJobNumbers(m[1])
		if len(numbers) > 0 {
			return &Intent{Action: ActionApplyJob, JobNumbers: numbers, Source: "stage1"}, true
		}
	}

	category, catFound := tagmodel.DetectCategory(trimmed)
	state, stateFound := tagmodel.DetectState(trimmed)

	if trimmed == "engineer" || trimmed == "engineers" {
		category, catFound = "engineering", true
	}
	if catFound && category == "engineering" && strings.Contains(trimmed, "engineer") &&
		!strings.Contains(trimmed, "engineering") && !strings.Contains(trimmed, "mechanical") &&
		!strings.Contains(trimmed, "civil") && !strings.Contains(trimmed, "electrical") &&
		mentionsRecently(history, "software", "network") {
		category = "it_software"
	}

	switch {
	case catFound && stateFound:
		return &Intent{
			Action:  ActionSearchJobs,
			Filters: &Filters{Title: string(category), Location: state},
			Source:  "stage1",
		}, true
	case stateFound && !catFound:
		return &Intent{
			Action:   ActionClarify,
			Response: "What kind of job are you looking for in " + state + "?",
			Source:   "stage1",
		}, true
	case catFound && !stateFound:
		return &Intent{
			Action:   ActionClarify,
			Response: "Which location or state should I search in?",
			Source:   "stage1",
		}, true
	}

	return nil, false
}

func parseJobNumbers(raw string) []int {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// mentionsRecently reports whether any of the last six turns contain one of
// the given disambiguating tokens.
func mentionsRecently(history []Turn, tokens ...string) bool {
	start := 0
	if len(history) > 6 {
		start = len(history) - 6
	}
	for _, turn := range history[start:] {
		lower := strings.ToLower(turn.Content)
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				return true
			}
		}
	}
	return false
}
