package handler

import (
	"encoding/json"
	"net/http"

	httpPlatform "github.com/smartcvnaija/jobbroker/internal/platform/http"
	"github.com/smartcvnaija/jobbroker/internal/platform/queue"
	"github.com/smartcvnaija/jobbroker/modules/applications/model"
	"github.com/smartcvnaija/jobbroker/modules/applications/service"
	"github.com/gin-gonic/gin"
)

// ApplicationHandler exposes the admin-console read surface over
// applications. Submission itself happens through the conversational flow
// (C9), not this HTTP surface — Create here exists for the admin console to
// backfill or re-trigger a send.
type ApplicationHandler struct {
	service *service.ApplicationService
	queue   *queue.Queue
}

func NewApplicationHandler(service *service.ApplicationService, q *queue.Queue) *ApplicationHandler {
	return &ApplicationHandler{service: service, queue: q}
}

// Create godoc
// @Summary Submit a job application
// @Description Records an application and enqueues the async recruiter send
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body model.CreateApplicationRequest true "Application details"
// @Success 201 {object} model.ApplicationDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req model.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	app, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if model.GetErrorCode(err) != model.CodeInternalError {
			status = http.StatusBadRequest
		}
		httpPlatform.RespondWithError(c, status, string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}

	payload, err := json.Marshal(map[string]string{"application_id": app.ID})
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to enqueue application send")
		return
	}
	if _, err := h.queue.Enqueue(c.Request.Context(), queue.QueueJobApplications, string(payload)); err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to enqueue application send")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, app)
}

// Get godoc
// @Summary Get an application
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} model.ApplicationDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if model.GetErrorCode(err) == model.CodeApplicationNotFound {
			status = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, status, string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, app)
}

// List godoc
// @Summary List applications for a phone number
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param phone query string true "Applicant phone number"
// @Param limit query int false "Number of items per page (default: 20, max: 100)"
// @Param offset query int false "Number of items to skip (default: 0)"
// @Param sort_by query string false "Sort field: submitted_at, status"
// @Param sort_dir query string false "Sort direction: asc, desc"
// @Success 200 {object} httpPlatform.PaginatedResponse{items=[]model.ApplicationDTO}
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "phone query parameter is required")
		return
	}

	pagination, err := httpPlatform.ParsePaginationParams(c)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "INVALID_PAGINATION_PARAMS", "Invalid pagination parameters")
		return
	}

	sortBy := c.DefaultQuery("sort_by", "submitted_at")
	sortDir := c.DefaultQuery("sort_dir", "desc")

	apps, total, err := h.service.List(c.Request.Context(), phone, sortBy, sortDir, pagination.Limit, pagination.Offset)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list applications")
		return
	}
	httpPlatform.RespondWithPagination(c, http.StatusOK, apps, pagination.Limit, pagination.Offset, total)
}

// Update godoc
// @Summary Patch an application's outcome
// @Description Admin-console override of status/ATS score/failure reason
// @Tags applications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body model.UpdateApplicationRequest true "Patch"
// @Success 200 {object} model.ApplicationDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /applications/{id} [patch]
func (h *ApplicationHandler) Update(c *gin.Context) {
	var req model.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	status := model.StatusSubmitted
	if req.Status != nil {
		status = model.ApplicationStatus(*req.Status)
	}

	app, err := h.service.UpdateOutcome(c.Request.Context(), c.Param("id"), status, req.ATSScore, req.FailureReason)
	if err != nil {
		respStatus := http.StatusInternalServerError
		switch model.GetErrorCode(err) {
		case model.CodeApplicationNotFound:
			respStatus = http.StatusNotFound
		case model.CodeInvalidStatus:
			respStatus = http.StatusBadRequest
		}
		httpPlatform.RespondWithError(c, respStatus, string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, app)
}

// Delete godoc
// @Summary Delete an application
// @Tags applications
// @Security BearerAuth
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		status := http.StatusInternalServerError
		if model.GetErrorCode(err) == model.CodeApplicationNotFound {
			status = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, status, string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "application deleted"})
}

// RegisterRoutes mounts the admin-gated application surface.
func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	apps := router.Group("/applications")
	apps.Use(authMiddleware)
	{
		apps.POST("", h.Create)
		apps.GET("", h.List)
		apps.GET("/:id", h.Get)
		apps.PATCH("/:id", h.Update)
		apps.DELETE("/:id", h.Delete)
	}
}
