package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	"github.com/smartcvnaija/jobbroker/modules/joblistings/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockJobListingRepository struct {
	createFunc  func(ctx context.Context, listing *model.JobListing) error
	getByIDFunc func(ctx context.Context, id string) (*model.JobListing, error)
	searchFunc  func(ctx context.Context, req *model.SearchJobListingsRequest, limit, offset int) ([]*model.JobListingDTO, int, error)
	updateFunc  func(ctx context.Context, listing *model.JobListing) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockJobListingRepository) Create(ctx context.Context, listing *model.JobListing) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, listing)
	}
	return nil
}
func (m *mockJobListingRepository) GetByID(ctx context.Context, id string) (*model.JobListing, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}
func (m *mockJobListingRepository) Search(ctx context.Context, req *model.SearchJobListingsRequest, limit, offset int) ([]*model.JobListingDTO, int, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, req, limit, offset)
	}
	return nil, 0, nil
}
func (m *mockJobListingRepository) Update(ctx context.Context, listing *model.JobListing) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, listing)
	}
	return nil
}
func (m *mockJobListingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockJobListingRepository) ExpireOlderThan(ctx context.Context) (int, error) { return 0, nil }
func (m *mockJobListingRepository) ExistsByExternalID(ctx context.Context, source, externalID string) (bool, error) {
	return false, nil
}

func mockAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "operator-123")
		c.Next()
	}
}

func TestJobListingHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("creates a listing for a valid request", func(t *testing.T) {
		repo := &mockJobListingRepository{}
		svc := service.NewJobListingService(repo)
		handler := NewJobListingHandler(svc)

		router := gin.New()
		router.POST("/job-listings", mockAuthMiddleware(), handler.Create)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "Backend Engineer",
			"location":    "Lagos",
			"state":       "Lagos",
			"email":       "recruiter@example.com",
			"description": "Build things",
			"category":    "engineering",
		})
		req := httptest.NewRequest(http.MethodPost, "/job-listings", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		repo := &mockJobListingRepository{}
		svc := service.NewJobListingService(repo)
		handler := NewJobListingHandler(svc)

		router := gin.New()
		router.POST("/job-listings", mockAuthMiddleware(), handler.Create)

		req := httptest.NewRequest(http.MethodPost, "/job-listings", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("surfaces a domain validation error as 400", func(t *testing.T) {
		repo := &mockJobListingRepository{}
		svc := service.NewJobListingService(repo)
		handler := NewJobListingHandler(svc)

		router := gin.New()
		router.POST("/job-listings", mockAuthMiddleware(), handler.Create)

		body, _ := json.Marshal(map[string]interface{}{
			"title":       "Backend Engineer",
			"location":    "Lagos",
			"state":       "Lagos",
			"email":       "recruiter@example.com",
			"description": "Build things",
			"category":    "wizardry",
		})
		req := httptest.NewRequest(http.MethodPost, "/job-listings", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJobListingHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the listing", func(t *testing.T) {
		repo := &mockJobListingRepository{
			getByIDFunc: func(ctx context.Context, id string) (*model.JobListing, error) {
				return &model.JobListing{ID: id, Title: "Backend Engineer"}, nil
			},
		}
		svc := service.NewJobListingService(repo)
		handler := NewJobListingHandler(svc)

		router := gin.New()
		router.GET("/job-listings/:id", handler.Get)

		req := httptest.NewRequest(http.MethodGet, "/job-listings/job-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 404 when the listing does not exist", func(t *testing.T) {
		repo := &mockJobListingRepository{
			getByIDFunc: func(ctx context.Context, id string) (*model.JobListing, error) {
				return nil, model.ErrJobListingNotFound
			},
		}
		svc := service.NewJobListingService(repo)
		handler := NewJobListingHandler(svc)

		router := gin.New()
		router.GET("/job-listings/:id", handler.Get)

		req := httptest.NewRequest(http.MethodGet, "/job-listings/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJobListingHandler_Search(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockJobListingRepository{
		searchFunc: func(ctx context.Context, req *model.SearchJobListingsRequest, limit, offset int) ([]*model.JobListingDTO, int, error) {
			return []*model.JobListingDTO{{ID: "job-1"}}, 1, nil
		},
	}
	svc := service.NewJobListingService(repo)
	handler := NewJobListingHandler(svc)

	router := gin.New()
	router.GET("/job-listings", handler.Search)

	req := httptest.NewRequest(http.MethodGet, "/job-listings?q=engineer", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJobListingHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("applies the patch", func(t *testing.T) {
		existing := &model.JobListing{ID: "job-1", Title: "Backend Engineer"}
		repo := &mockJobListingRepository{
			getByIDFunc: func(ctx context.Context, id string) (*model.JobListing, error) { return existing, nil },
		}
		svc := service.NewJobListingService(repo)
		handler := NewJobListingHandler(svc)

		router := gin.New()
		router.PATCH("/job-listings/:id", mockAuthMiddleware(), handler.Update)

		body, _ := json.Marshal(map[string]interface{}{"title": "Senior Backend Engineer"})
		req := httptest.NewRequest(http.MethodPatch, "/job-listings/job-1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 404 when the listing does not exist", func(t *testing.T) {
		repo := &mockJobListingRepository{
			getByIDFunc: func(ctx context.Context, id string) (*model.JobListing, error) {
				return nil, model.ErrJobListingNotFound
			},
		}
		svc := service.NewJobListingService(repo)
		handler := NewJobListingHandler(svc)

		router := gin.New()
		router.PATCH("/job-listings/:id", mockAuthMiddleware(), handler.Update)

		body, _ := json.Marshal(map[string]interface{}{"title": "Senior Backend Engineer"})
		req := httptest.NewRequest(http.MethodPatch, "/job-listings/missing", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJobListingHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockJobListingRepository{}
	svc := service.NewJobListingService(repo)
	handler := NewJobListingHandler(svc)

	router := gin.New()
	router.DELETE("/job-listings/:id", mockAuthMiddleware(), handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/job-listings/job-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJobListingHandler_RegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockJobListingRepository{
		searchFunc: func(ctx context.Context, req *model.SearchJobListingsRequest, limit, offset int) ([]*model.JobListingDTO, int, error) {
			return nil, 0, nil
		},
	}
	svc := service.NewJobListingService(repo)
	handler := NewJobListingHandler(svc)

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1, mockAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/job-listings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
