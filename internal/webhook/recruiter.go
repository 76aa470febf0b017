package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	httpPlatform "github.com/smartcvnaija/jobbroker/internal/platform/http"
	"github.com/smartcvnaija/jobbroker/internal/platform/mailer"
	"github.com/smartcvnaija/jobbroker/internal/platform/ratelimit"
	joblistingmodel "github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	joblistingservice "github.com/smartcvnaija/jobbroker/modules/joblistings/service"
	tagmodel "github.com/smartcvnaija/jobbroker/modules/tags/model"
	"go.uber.org/zap"
)

// recruiterPostRequest is the recruiter direct job-posting form (§4.10),
// kept separate from CreateJobListingRequest since the public form is more
// permissive about whitespace and casing than the admin-console path.
type recruiterPostRequest struct {
	Title           string `json:"title" form:"title" binding:"required"`
	CompanyName     string `json:"company_name" form:"company_name"`
	Location        string `json:"location" form:"location" binding:"required"`
	State           string `json:"state" form:"state" binding:"required"`
	IsRemote        bool   `json:"is_remote" form:"is_remote"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Description     string `json:"description" form:"description" binding:"required"`
	Requirements    string `json:"requirements" form:"requirements"`
	ExperienceLevel string `json:"experience_level" form:"experience_level"`
	Category        string `json:"category" form:"category" binding:"required"`
}

// RecruiterHandler accepts direct job postings from recruiters who are not
// routed through the WhatsApp conversation at all — a plain public form.
type RecruiterHandler struct {
	jobs    *joblistingservice.JobListingService
	limiter *ratelimit.Limiter
	alerts  *mailer.AlertChannel
	log     *zap.Logger
}

func NewRecruiterHandler(jobs *joblistingservice.JobListingService, limiter *ratelimit.Limiter, alerts *mailer.AlertChannel, log *zap.Logger) *RecruiterHandler {
	return &RecruiterHandler{jobs: jobs, limiter: limiter, alerts: alerts, log: log}
}

// Handle validates and stores a recruiter-submitted job listing, then
// alerts the operator channel so a human can sanity-check new postings.
//
// @Summary Recruiter direct job posting
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body recruiterPostRequest true "Job posting"
// @Success 201 {object} joblistingmodel.JobListingDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 429 {object} httpPlatform.ErrorResponse
// @Router /recruiter/jobs [post]
func (h *RecruiterHandler) Handle(c *gin.Context) {
	ip := c.ClientIP()
	if res := h.limiter.CheckLimit(c.Request.Context(), ip, ratelimit.ActionRecruiterPost); !res.Allowed {
		httpPlatform.RespondWithError(c, http.StatusTooManyRequests, "RATE_LIMITED", res.Message)
		return
	}

	var req recruiterPostRequest
	if err := c.ShouldBind(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)
	req.State = normalizeState(req.State)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !isValidState(req.State) {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "INVALID_STATE", fmt.Sprintf("%q is not a recognized Nigerian state", req.State))
		return
	}
	if !joblistingmodel.IsValidCategory(req.Category) {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "INVALID_CATEGORY", fmt.Sprintf("%q is not a recognized job category", req.Category))
		return
	}

	listing, err := h.jobs.Create(c.Request.Context(), &joblistingmodel.CreateJobListingRequest{
		Title:           req.Title,
		Location:        req.Location,
		State:           req.State,
		IsRemote:        req.IsRemote,
		Email:           req.Email,
		Description:     req.Description,
		Requirements:    optionalString(req.Requirements),
		ExperienceLevel: req.ExperienceLevel,
		Category:        req.Category,
		Source:          "recruiter_direct",
	})
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "CREATE_FAILED", err.Error())
		return
	}

	h.notifyAdmin(c.Request.Context(), listing, req.Email)
	httpPlatform.RespondWithData(c, http.StatusCreated, listing)
}

func (h *RecruiterHandler) notifyAdmin(ctx context.Context, listing *joblistingmodel.JobListingDTO, contactEmail string) {
	body := fmt.Sprintf("New recruiter job posting: %q in %s (%s). Contact: %s", listing.Title, listing.State, listing.Category, contactEmail)
	if err := h.alerts.Notify(ctx, "new recruiter job posting", body); err != nil {
		h.log.Warn("webhook: recruiter-post admin alert failed", zap.Error(err))
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func normalizeState(s string) string {
	return strings.TrimSpace(s)
}

func isValidState(s string) bool {
	if strings.EqualFold(s, "Remote") {
		return true
	}
	for _, state := range tagmodel.NigerianStates {
		if strings.EqualFold(state, s) {
			return true
		}
	}
	return false
}
