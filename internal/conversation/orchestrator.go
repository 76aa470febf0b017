package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smartcvnaija/jobbroker/internal/config"
	"github.com/smartcvnaija/jobbroker/internal/intent"
	"github.com/smartcvnaija/jobbroker/internal/platform/messaging"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
	"github.com/smartcvnaija/jobbroker/internal/platform/ratelimit"
	"github.com/smartcvnaija/jobbroker/internal/worker"
	dailyusage "github.com/smartcvnaija/jobbroker/modules/dailyusage/service"
	jlmodel "github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	jlservice "github.com/smartcvnaija/jobbroker/modules/joblistings/service"
	"go.uber.org/zap"
)

// InboundKind is the event type dispatched by the webhook router (C10).
type InboundKind string

const (
	InboundText     InboundKind = "text"
	InboundDocument InboundKind = "document"
)

// InboundEvent carries one webhook-delivered message, already deduplicated
// by the caller.
type InboundEvent struct {
	Identifier   string
	MessageID    string
	Kind         InboundKind
	Text         string
	DocumentData []byte
	OriginalName string
}

// Orchestrator is the C9 finite-state machine. It owns no transport of its
// own: replies go out over messaging.Client, CV/application work is handed
// to the queue fabric, and quota decisions go through dailyusage.Service.
type Orchestrator struct {
	session   *Session
	resolver  *intent.Resolver
	msg       *messaging.Client
	limiter   *ratelimit.Limiter
	queue     *queue.Queue
	listings  *jlservice.JobListingService
	usage     *dailyusage.DailyUsageService
	payment   config.PaymentConfig
	uploads   string
	log       *zap.Logger
}

func NewOrchestrator(
	session *Session,
	resolver *intent.Resolver,
	msg *messaging.Client,
	limiter *ratelimit.Limiter,
	q *queue.Queue,
	listings *jlservice.JobListingService,
	usage *dailyusage.DailyUsageService,
	payment config.PaymentConfig,
	uploadsDir string,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		session: session, resolver: resolver, msg: msg, limiter: limiter,
		queue: q, listings: listings, usage: usage, payment: payment,
		uploads: uploadsDir, log: log,
	}
}

// HandleInboundText is the inboundText event of §4.9.
func (o *Orchestrator) HandleInboundText(ctx context.Context, id, messageID, text string) {
	if res := o.limiter.CheckLimit(ctx, id, ratelimit.ActionMessage); !res.Allowed {
		_ = o.msg.SendText(ctx, id, "You're sending messages too fast. Please slow down a little.")
		return
	}

	_ = o.session.AppendTurn(ctx, id, "user", text)
	history, _ := o.session.Conversation(ctx, id)

	state, _ := o.session.State(ctx, id)
	if state == StateAwaitingCoverLetter {
		o.handleAwaitingCoverLetter(ctx, id, messageID, text)
		return
	}

	in := o.resolver.Resolve(ctx, text, history)
	o.dispatchIntent(ctx, id, messageID, in)
}

func (o *Orchestrator) dispatchIntent(ctx context.Context, id, messageID string, in *intent.Intent) {
	switch in.Action {
	case intent.ActionGreeting, intent.ActionHelp, intent.ActionAbout, intent.ActionChat, intent.ActionClarify:
		o.reply(ctx, id, messageID, in.Response, messaging.MessageInstantResponse)

	case intent.ActionStatus:
		remaining, _ := o.usage.Remaining(ctx, id)
		o.reply(ctx, id, messageID, fmt.Sprintf("You have %d application(s) remaining today.", remaining), messaging.MessageInstantResponse)

	case intent.ActionReset:
		_ = o.session.Reset(ctx, id)
		o.reply(ctx, id, messageID, "Session cleared. Tell me a job title and location to start over.", messaging.MessageInstantResponse)

	case intent.ActionSearchJobs:
		o.handleSearchJobs(ctx, id, messageID, in.Filters)

	case intent.ActionApplyJob:
		o.handleJobApplication(ctx, id, messageID, in)

	default:
		o.reply(ctx, id, messageID, "I didn't quite catch that. Type \"help\" to see what I can do.", messaging.MessageInstantResponse)
	}
}

func (o *Orchestrator) handleSearchJobs(ctx context.Context, id, messageID string, filters *intent.Filters) {
	if res := o.limiter.CheckLimit(ctx, id, ratelimit.ActionJobSearch); !res.Allowed {
		o.reply(ctx, id, messageID, "You've searched a lot recently — try again shortly.", messaging.MessageInstantResponse)
		return
	}

	req := &jlmodel.SearchJobListingsRequest{}
	if filters != nil {
		req.Keyword = filters.Title
		req.State = filters.Location
		req.RemoteOnly = filters.Remote
	}

	results, _, err := o.listings.Search(ctx, req, 10, 0)
	if err != nil {
		o.log.Error("conversation: job search failed", zap.Error(err))
		o.reply(ctx, id, messageID, "Sorry, I had trouble searching jobs just now.", messaging.MessageInstantResponse)
		return
	}
	if len(results) == 0 {
		o.reply(ctx, id, messageID, "No matching jobs right now. Try a different title or state.", messaging.MessageSearchResults)
		return
	}

	summaries := make([]JobSummary, 0, len(results))
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d job(s):\n", len(results)))
	for i, dto := range results {
		company := ""
		if dto.CompanyName != nil {
			company = *dto.CompanyName
		}
		summaries = append(summaries, JobSummary{ID: dto.ID, Title: dto.Title, Company: company, State: dto.State})
		sb.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, dto.Title, company, dto.State))
	}
	sb.WriteString("\nReply \"apply 1,2\" or \"apply all\" to apply.")

	_ = o.session.SetLastJobs(ctx, id, summaries)
	o.reply(ctx, id, messageID, sb.String(), messaging.MessageSearchResults)
}

// HandleInboundDocument is the inboundDocument event of §4.9.
func (o *Orchestrator) HandleInboundDocument(ctx context.Context, id, messageID string, data []byte, originalName string) {
	if res := o.limiter.CheckLimit(ctx, id, ratelimit.ActionCVUpload); !res.Allowed {
		_ = o.msg.SendText(ctx, id, "You've uploaded several CVs recently. Please wait before uploading another.")
		return
	}
	if len(data) > 5*1024*1024 {
		o.reply(ctx, id, messageID, "That file is too large. Please send a CV under 5 MB.", messaging.MessageInstantResponse)
		return
	}

	payload, _ := json.Marshal(worker.CVJobPayload{Identifier: id, Data: data, OriginalName: originalName})
	job, err := o.queue.Enqueue(ctx, queue.QueueCVProcessing, string(payload))
	if err != nil {
		o.log.Error("conversation: failed to enqueue CV job", zap.Error(err))
		o.reply(ctx, id, messageID, "Sorry, I couldn't process that file right now. Please try again.", messaging.MessageInstantResponse)
		return
	}

	o.reply(ctx, id, messageID, "Got your CV, processing it now...", messaging.MessageProcessing)
	go o.awaitCVResult(context.WithoutCancel(ctx), id, job.ID)
}

func (o *Orchestrator) awaitCVResult(ctx context.Context, id, jobID string) {
	ch := o.queue.Subscribe(jobID)
	defer o.queue.Unsubscribe(jobID, ch)

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case ev := <-ch:
			if ev.Status == queue.StatusCompleted {
				_ = o.session.SetState(ctx, id, StateAwaitingCoverLetter)
				remaining, _ := o.usage.Remaining(ctx, id)
				_ = o.msg.SendText(ctx, id, fmt.Sprintf(
					"Your CV is ready. Reply \"generate\" for an AI cover letter, or paste your own. You have %d application(s) remaining today.",
					remaining,
				))
				return
			}
			if ev.Status == queue.StatusFailed {
				_ = o.msg.SendText(ctx, id, "I couldn't read that CV. Please upload a PDF or DOCX file.")
				return
			}
		case <-timeout.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (o *Orchestrator) handleAwaitingCoverLetter(ctx context.Context, id, messageID, text string) {
	var letter string
	if strings.EqualFold(strings.TrimSpace(text), "generate") {
		cvText, ok, _ := o.session.CVText(ctx, id)
		if !ok {
			o.reply(ctx, id, messageID, "I don't have a CV on file yet. Please upload one first.", messaging.MessageInstantResponse)
			return
		}
		payload, _ := json.Marshal(map[string]string{"identifier": id, "cv_text": cvText})
		job, err := o.queue.Enqueue(ctx, queue.QueueOpenAITasks, string(payload))
		if err != nil {
			o.reply(ctx, id, messageID, "Couldn't generate a cover letter right now. Try pasting your own.", messaging.MessageInstantResponse)
			return
		}
		letter = fmt.Sprintf("cover-letter-job:%s", job.ID)
	} else {
		letter = text
	}

	_ = o.session.SetCoverLetter(ctx, id, letter)
	_ = o.session.SetState(ctx, id, StateIdle)
	o.reply(ctx, id, messageID, "Cover letter saved.", messaging.MessageInstantResponse)

	if pending, _ := o.session.PendingJobs(ctx, id); len(pending) > 0 {
		o.applyToJobs(ctx, id, pending)
		_ = o.session.ClearPendingJobs(ctx, id)
	}
}

// handleJobApplication resolves positional job references and either
// initiates payment or enqueues the application job, per §4.9.
func (o *Orchestrator) handleJobApplication(ctx context.Context, id, messageID string, in *intent.Intent) {
	lastJobs, _ := o.session.LastJobs(ctx, id)
	if len(lastJobs) == 0 {
		o.reply(ctx, id, messageID, "Search for jobs first, then reply \"apply 1,2\" or \"apply all\".", messaging.MessageInstantResponse)
		return
	}

	var jobIDs []string
	if in.ApplyAll {
		for _, j := range lastJobs {
			jobIDs = append(jobIDs, j.ID)
		}
	} else {
		for _, n := range in.JobNumbers {
			if n >= 1 && n <= len(lastJobs) {
				jobIDs = append(jobIDs, lastJobs[n-1].ID)
			}
		}
	}
	if len(jobIDs) == 0 {
		o.reply(ctx, id, messageID, "I couldn't match that selection to your last search results.", messaging.MessageInstantResponse)
		return
	}

	needsPayment, _, err := o.usage.NeedsPayment(ctx, id, len(jobIDs))
	if err != nil {
		o.log.Error("conversation: quota check failed", zap.Error(err))
	}
	if needsPayment {
		_ = o.session.SetPendingJobs(ctx, id, jobIDs)
		ref := fmt.Sprintf("daily_%d_%s", time.Now().UnixMilli(), id)
		url := fmt.Sprintf("%s?reference=%s", o.payment.WebhookURL, ref)
		o.reply(ctx, id, messageID, fmt.Sprintf("You're out of free applications for today. Complete payment to continue: %s", url), messaging.MessagePaymentInfo)
		return
	}

	if hasCV, _ := o.session.HasCV(ctx, id); !hasCV {
		o.reply(ctx, id, messageID, "Please upload your CV (PDF or DOCX) first.", messaging.MessageInstantResponse)
		return
	}
	if _, hasLetter, _ := o.session.CoverLetter(ctx, id); !hasLetter {
		_ = o.session.SetState(ctx, id, StateAwaitingCoverLetter)
		_ = o.session.SetPendingJobs(ctx, id, jobIDs)
		o.reply(ctx, id, messageID, "Reply \"generate\" for an AI cover letter, or paste your own first.", messaging.MessageInstantResponse)
		return
	}

	ok, err := o.usage.Deduct(ctx, id, len(jobIDs))
	if err != nil || !ok {
		o.reply(ctx, id, messageID, "You don't have enough applications remaining today.", messaging.MessageInstantResponse)
		return
	}

	o.applyToJobs(ctx, id, jobIDs)
	o.reply(ctx, id, messageID, fmt.Sprintf("Applying to %d job(s) now — I'll email recruiters on your behalf.", len(jobIDs)), messaging.MessageProcessing)
}

// applyToJobs enqueues the application worker's payload once quota has
// already been deducted (or payment has just completed).
func (o *Orchestrator) applyToJobs(ctx context.Context, id string, jobIDs []string) {
	filename, ok, _ := o.session.CVFile(ctx, id)
	if !ok {
		o.log.Warn("conversation: apply attempted with no cv_file session key", zap.String("identifier", maskForLog(id)))
		return
	}
	payload, _ := json.Marshal(worker.ApplicationJobPayload{
		Identifier:   id,
		FilePath:     o.uploads + "/" + filename,
		OriginalName: filename,
		JobIDs:       jobIDs,
	})
	if _, err := o.queue.Enqueue(ctx, queue.QueueJobApplications, string(payload)); err != nil {
		o.log.Error("conversation: failed to enqueue application job", zap.Error(err))
	}
}

// HandlePaymentCompleted is invoked by the payment webhook handler once a
// charge.success event has been verified and the referenced quota granted.
func (o *Orchestrator) HandlePaymentCompleted(ctx context.Context, id string) {
	pending, _ := o.session.PendingJobs(ctx, id)
	if len(pending) == 0 {
		return
	}
	time.Sleep(500 * time.Millisecond)
	o.applyToJobs(ctx, id, pending)
	_ = o.session.ClearPendingJobs(ctx, id)
	_ = o.msg.SendText(ctx, id, fmt.Sprintf("Payment received — applying to %d job(s) now.", len(pending)))
}

func (o *Orchestrator) reply(ctx context.Context, id, messageID, text string, msgType messaging.MessageType) {
	_ = o.session.AppendTurn(ctx, id, "assistant", text)
	err := o.msg.SmartSend(ctx, id, text, messaging.SmartSendOptions{
		InboundMessageID: messageID,
		MessageType:      msgType,
	})
	if err != nil {
		o.log.Warn("conversation: reply send failed", zap.String("identifier", maskForLog(id)), zap.Error(err))
	}
}

func maskForLog(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}
