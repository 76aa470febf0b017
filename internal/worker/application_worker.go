package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/smartcvnaija/jobbroker/internal/platform/ai"
	"github.com/smartcvnaija/jobbroker/internal/platform/cvtext"
	"github.com/smartcvnaija/jobbroker/internal/platform/identity"
	"github.com/smartcvnaija/jobbroker/internal/platform/mailer"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
	appmodel "github.com/smartcvnaija/jobbroker/modules/applications/model"
	appservice "github.com/smartcvnaija/jobbroker/modules/applications/service"
	cleanupservice "github.com/smartcvnaija/jobbroker/modules/cleanup/service"
	jlmodel "github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	jlservice "github.com/smartcvnaija/jobbroker/modules/joblistings/service"
	tagmodel "github.com/smartcvnaija/jobbroker/modules/tags/model"
	"go.uber.org/zap"
)

// ApplicationJobPayload is enqueued by the conversation orchestrator once
// quota has been atomically deducted for the resolved job list.
type ApplicationJobPayload struct {
	Identifier   string   `json:"identifier"`
	FilePath     string   `json:"filepath"`
	FileSize     int      `json:"size"`
	MimeType     string   `json:"mimetype"`
	OriginalName string   `json:"originalname"`
	JobIDs       []string `json:"jobs"`
}

// ApplicationWorker implements the C8 handler: the hardest, slowest, and
// highest-stakes stage of the pipeline.
type ApplicationWorker struct {
	apps       *appservice.ApplicationService
	listings   *jlservice.JobListingService
	router     *ai.Router
	recruiter  *mailer.Identity
	confirm    *mailer.Identity
	cleanup    *cleanupservice.CleanupService
	log        *zap.Logger
}

func NewApplicationWorker(
	apps *appservice.ApplicationService,
	listings *jlservice.JobListingService,
	router *ai.Router,
	recruiterIdentity, confirmIdentity *mailer.Identity,
	cleanup *cleanupservice.CleanupService,
	log *zap.Logger,
) *ApplicationWorker {
	return &ApplicationWorker{
		apps:      apps,
		listings:  listings,
		router:    router,
		recruiter: recruiterIdentity,
		confirm:   confirmIdentity,
		cleanup:   cleanup,
		log:       log,
	}
}

type jobOutcome struct {
	listing     *jlmodel.JobListing
	coverLetter string
	score       int
	sendErr     error
	appID       string
}

// Handle runs the seven stages of §4.8 in order. The percentages in the
// stage comments below mark each stage's place in the pipeline; Handle does
// not report intermediate progress to the queue or to the log, and only
// returns the final result or error.
func (w *ApplicationWorker) Handle(ctx context.Context, job *queue.Job) (string, error) {
	var payload ApplicationJobPayload
	if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
		return "", fmt.Errorf("application worker: bad payload: %w", err)
	}

	// Stage 1: verify binary exists (10%).
	data, err := os.ReadFile(payload.FilePath)
	if err != nil {
		return "", fmt.Errorf("application worker: CV binary missing: %w", err)
	}

	// Stage 2: re-extract, clean, and validate identity (30%).
	text, _, err := cvtext.Extract(data)
	if err != nil {
		return "", fmt.Errorf("application worker: re-extract failed: %w", err)
	}
	ident := identity.Extract(text)
	if !validatedApplicant(ident) {
		return "", fmt.Errorf("CV_VALIDATION_FAILED: no plausible name plus email or phone")
	}

	jobs := make([]*jlmodel.JobListing, 0, len(payload.JobIDs))
	for _, id := range payload.JobIDs {
		listing, err := w.listings.GetByID(ctx, id)
		if err != nil {
			w.log.Warn("application worker: job listing lookup failed", zap.String("job_id", id), zap.Error(err))
			continue
		}
		jobs = append(jobs, listing)
	}
	if len(jobs) == 0 {
		return "", fmt.Errorf("application worker: no resolvable job listings in payload")
	}

	// Stage 3: synthesize cover letters (50%).
	outcomes := make([]*jobOutcome, 0, len(jobs))
	for _, listing := range jobs {
		letter := w.synthesizeCoverLetter(ctx, text, ident, listing)
		outcomes = append(outcomes, &jobOutcome{listing: listing, coverLetter: letter})
	}

	// Stage 4: score each job and insert the application row (70%).
	for _, o := range outcomes {
		score := w.scoreJob(ctx, text, o.listing)
		o.score = score

		app, err := w.apps.SubmitFromWorker(ctx, payload.Identifier, o.listing.ID,
			ident.Name.Value, ident.Email.Value, ident.Phone.Value, o.coverLetter, text, score)
		if err != nil {
			w.log.Error("application worker: failed to persist application row",
				zap.String("job_id", o.listing.ID), zap.Error(err))
			continue
		}
		o.appID = app.ID
	}

	// Stage 5: batched recruiter email fan-out (85%).
	w.sendRecruiterEmails(ctx, payload, ident, outcomes, data)

	// Stage 6: confirmation email to applicant (95%).
	w.sendConfirmation(ctx, ident, outcomes)

	// Stage 7: schedule cleanup ten minutes out (100%).
	if w.cleanup != nil {
		if err := w.cleanup.Schedule(ctx, payload.FilePath, 10*time.Minute); err != nil {
			w.log.Warn("application worker: failed to schedule cleanup", zap.String("path", payload.FilePath), zap.Error(err))
		}
	}

	result, _ := json.Marshal(map[string]any{"applied": len(outcomes), "identifier": maskIdentifier(payload.Identifier)})
	return string(result), nil
}

var nameTokenRe = regexp.MustCompile(`^[A-Za-z ]{2,}$`)

func validatedApplicant(ident identity.Identity) bool {
	name := strings.TrimSpace(ident.Name.Value)
	if len(name) < 2 || !nameTokenRe.MatchString(name) {
		return false
	}
	if _, isState := tagmodel.DetectState(name); isState {
		return false
	}
	return ident.Email.Value != "" || ident.Phone.Value != ""
}

func (w *ApplicationWorker) synthesizeCoverLetter(ctx context.Context, cvText string, ident identity.Identity, listing *jlmodel.JobListing) string {
	callCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	// listing only carries the company's UUID here, not a display name, so
	// there's nothing sensible to interpolate beyond the generic fallback.
	companyName := "the company"
	prompt := fmt.Sprintf(
		"Write a concise, professional cover letter for %s applying to the %s role at %s. CV summary:\n%s",
		firstNonEmpty(ident.Name.Value, "the applicant"), listing.Title, companyName, truncate(cvText, 4000),
	)

	resp, err := w.router.Complete(callCtx, ai.Request{
		System:    "You write short, warm, specific cover letters for Nigerian jobseekers applying via WhatsApp.",
		User:      prompt,
		MaxTokens: 1500,
	})
	if err != nil {
		w.log.Warn("application worker: cover letter AI call failed, using fallback", zap.Error(err))
		return deterministicCoverLetter(cvText, ident, listing)
	}
	return resp.Text
}

var experienceYearsRe = regexp.MustCompile(`(\d+)\s*years?\s*(of\s*)?experience`)
var masterRe = regexp.MustCompile(`(?i)master|msc`)
var bachelorRe = regexp.MustCompile(`(?i)bachelor|bsc`)
var diplomaRe = regexp.MustCompile(`(?i)diploma|hnd`)

// deterministicCoverLetter builds a keyword-derived fallback letter when AI
// synthesis fails: experience bucket, education level, and a job-family
// skills phrase interpolated into a fixed template.
func deterministicCoverLetter(cvText string, ident identity.Identity, listing *jlmodel.JobListing) string {
	experience := "foundational"
	if m := experienceYearsRe.FindStringSubmatch(cvText); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			switch {
			case years >= 7:
				experience = "extensive"
			case years >= 3:
				experience = "solid"
			}
		}
	}

	education := "a strong educational background"
	switch {
	case masterRe.MatchString(cvText):
		education = "a Master's degree"
	case bachelorRe.MatchString(cvText):
		education = "a Bachelor's degree"
	case diplomaRe.MatchString(cvText):
		education = "a Diploma/HND qualification"
	}

	skills := tagmodel.JobFamilySkillPhrase[listing.Category]
	if skills == "" {
		skills = tagmodel.JobFamilySkillPhrase[jlmodel.CategoryOther]
	}

	name := firstNonEmpty(ident.Name.Value, "Applicant")
	return fmt.Sprintf(
		"Dear Hiring Manager,\n\nMy name is %s and I am writing to express my interest in the %s position. "+
			"With %s years of relevant experience and %s, I bring %s to this role. "+
			"I would welcome the opportunity to discuss how my background fits your team's needs.\n\nSincerely,\n%s",
		name, listing.Title, experience, education, skills, name,
	)
}

func (w *ApplicationWorker) scoreJob(ctx context.Context, cvText string, listing *jlmodel.JobListing) int {
	callCtx, cancel := context.WithTimeout(ctx, 65*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(
		"Score how well this CV matches the %s role (category %s). CV:\n%s\nReturn only a JSON object {\"score\": <0-100>}.",
		listing.Title, listing.Category, truncate(cvText, 4000),
	)
	resp, err := w.router.Complete(callCtx, ai.Request{
		System:    "You are an ATS scoring engine. Reply with strict JSON only.",
		User:      prompt,
		JSONMode:  true,
		MaxTokens: 200,
	})
	if err == nil {
		var parsed struct {
			Score int `json:"score"`
		}
		if json.Unmarshal([]byte(strings.TrimSpace(resp.Text)), &parsed) == nil && parsed.Score > 0 {
			return clamp(parsed.Score, 50, 95)
		}
	}
	return clamp(deterministicScore(cvText, listing), 50, 95)
}

// deterministicScore seeds from job-family keyword hits plus modifiers for
// education markers, years of experience, CV length, and certifications.
func deterministicScore(cvText string, listing *jlmodel.JobListing) int {
	lower := strings.ToLower(cvText)
	score := 50

	for _, kw := range tagmodel.CategoryKeywords[listing.Category] {
		if strings.Contains(lower, kw) {
			score += 5
		}
	}
	if masterRe.MatchString(cvText) {
		score += 10
	} else if bachelorRe.MatchString(cvText) {
		score += 7
	} else if diplomaRe.MatchString(cvText) {
		score += 4
	}
	if m := experienceYearsRe.FindStringSubmatch(cvText); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			score += clamp(years, 0, 10)
		}
	}
	if len(cvText) > 2000 {
		score += 3
	}
	if strings.Contains(lower, "certified") || strings.Contains(lower, "certificate") {
		score += 5
	}
	return score
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func (w *ApplicationWorker) sendRecruiterEmails(ctx context.Context, payload ApplicationJobPayload, ident identity.Identity, outcomes []*jobOutcome, data []byte) {
	messages := make([]mailer.Message, 0, len(outcomes))
	for _, o := range outcomes {
		messages = append(messages, mailer.Message{
			To:      o.listing.RecruiterEmail(),
			ReplyTo: ident.Email.Value,
			Subject: fmt.Sprintf("Application: %s for %s", firstNonEmpty(ident.Name.Value, "Applicant"), o.listing.Title),
			Body:    o.coverLetter,
			Attachments: []mailer.Attachment{{
				Filename: payload.OriginalName,
				Data:     data,
			}},
		})
	}

	results := mailer.SendBatched(ctx, w.recruiter, messages, w.log)
	for i, res := range results {
		o := outcomes[i]
		o.sendErr = res.Error
		var status appmodel.ApplicationStatus
		var failureReason *string
		if res.Error != nil {
			status = appmodel.StatusEmailFailed
			msg := res.Error.Error()
			failureReason = &msg
		} else {
			status = appmodel.StatusEmailSent
		}
		if o.appID == "" {
			continue
		}
		if _, err := w.apps.UpdateOutcome(ctx, o.appID, status, &o.score, failureReason); err != nil {
			w.log.Error("application worker: failed to update application outcome", zap.String("application_id", o.appID), zap.Error(err))
		}
	}
}

func (w *ApplicationWorker) sendConfirmation(ctx context.Context, ident identity.Identity, outcomes []*jobOutcome) {
	if ident.Email.Value == "" || w.confirm == nil {
		return
	}

	var sent, failed []string
	for _, o := range outcomes {
		if o.sendErr == nil {
			sent = append(sent, o.listing.Title)
		} else {
			failed = append(failed, o.listing.Title)
		}
	}

	body := fmt.Sprintf("Hi %s,\n\nWe submitted your application to %d role(s).\n", firstNonEmpty(ident.Name.Value, "there"), len(outcomes))
	if len(sent) > 0 {
		body += "\nSent: " + strings.Join(sent, ", ")
	}
	if len(failed) > 0 {
		body += "\nCould not send: " + strings.Join(failed, ", ")
	}

	err := w.confirm.Send(mailer.Message{
		To:      ident.Email.Value,
		Subject: "Your job application confirmation",
		Body:    body,
	})
	if err != nil {
		w.log.Warn("application worker: confirmation email failed", zap.Error(err))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
