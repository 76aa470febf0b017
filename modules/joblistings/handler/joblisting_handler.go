package handler

import (
	"net/http"

	httpPlatform "github.com/smartcvnaija/jobbroker/internal/platform/http"
	"github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	"github.com/smartcvnaija/jobbroker/modules/joblistings/service"
	"github.com/gin-gonic/gin"
)

// JobListingHandler exposes the admin-console HTTP surface for the job
// catalog. The conversational search path (C9) calls the service directly,
// never through HTTP.
type JobListingHandler struct {
	service *service.JobListingService
}

// NewJobListingHandler creates a new job listing handler.
func NewJobListingHandler(service *service.JobListingService) *JobListingHandler {
	return &JobListingHandler{service: service}
}

// Create godoc
// @Summary Create a job listing
// @Description Create a new catalog entry (admin console)
// @Tags job-listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body model.CreateJobListingRequest true "Listing details"
// @Success 201 {object} model.JobListingDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /job-listings [post]
func (h *JobListingHandler) Create(c *gin.Context) {
	var req model.CreateJobListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	listing, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		code := model.GetErrorCode(err)
		status := http.StatusInternalServerError
		if code != model.CodeInternalError {
			status = http.StatusBadRequest
		}
		httpPlatform.RespondWithError(c, status, string(code), model.GetErrorMessage(err))
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, listing)
}

// Get godoc
// @Summary Get a job listing
// @Tags job-listings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} model.JobListingDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /job-listings/{id} [get]
func (h *JobListingHandler) Get(c *gin.Context) {
	listing, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := model.GetErrorCode(err)
		status := http.StatusInternalServerError
		if code == model.CodeJobListingNotFound {
			status = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, status, string(code), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, listing.ToDTO())
}

// Search godoc
// @Summary Search job listings
// @Tags job-listings
// @Produce json
// @Param q query string false "Keyword"
// @Param category query string false "Category"
// @Param state query string false "State"
// @Param remote query bool false "Remote only"
// @Success 200 {object} httpPlatform.PaginatedResponse{items=[]model.JobListingDTO}
// @Router /job-listings [get]
func (h *JobListingHandler) Search(c *gin.Context) {
	pagination, err := httpPlatform.ParsePaginationParams(c)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "INVALID_PAGINATION_PARAMS", "Invalid pagination parameters")
		return
	}

	req := &model.SearchJobListingsRequest{
		Keyword:    c.Query("q"),
		Category:   c.Query("category"),
		State:      c.Query("state"),
		RemoteOnly: c.Query("remote") == "true",
	}

	listings, total, err := h.service.Search(c.Request.Context(), req, pagination.Limit, pagination.Offset)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search job listings")
		return
	}

	httpPlatform.RespondWithPagination(c, http.StatusOK, listings, pagination.Limit, pagination.Offset, total)
}

// Update godoc
// @Summary Update a job listing
// @Tags job-listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body model.UpdateJobListingRequest true "Patch"
// @Success 200 {object} model.JobListingDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /job-listings/{id} [patch]
func (h *JobListingHandler) Update(c *gin.Context) {
	var req model.UpdateJobListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	listing, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		code := model.GetErrorCode(err)
		status := http.StatusInternalServerError
		if code == model.CodeJobListingNotFound {
			status = http.StatusNotFound
		} else if code != model.CodeInternalError {
			status = http.StatusBadRequest
		}
		httpPlatform.RespondWithError(c, status, string(code), model.GetErrorMessage(err))
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, listing)
}

// Delete godoc
// @Summary Delete a job listing
// @Tags job-listings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /job-listings/{id} [delete]
func (h *JobListingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		code := model.GetErrorCode(err)
		status := http.StatusInternalServerError
		if code == model.CodeJobListingNotFound {
			status = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, status, string(code), model.GetErrorMessage(err))
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{"message": "job listing deleted"})
}

// RegisterRoutes mounts the job catalog's public search and admin-gated CRUD.
func (h *JobListingHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	listings := router.Group("/job-listings")
	{
		listings.GET("", h.Search)
		listings.GET("/:id", h.Get)

		admin := listings.Group("")
		admin.Use(authMiddleware)
		{
			admin.POST("", h.Create)
			admin.PATCH("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}
