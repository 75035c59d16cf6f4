package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/service"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, query models.CourseQuery) ([]models.Course, bool, error)
	Popular(ctx context.Context, n int) ([]models.Course, bool, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Filters() models.CourseFilters
	Create(ctx context.Context, instructor service.Instructor, req models.CreateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, trainerID, courseID string) error
}

// CourseHandler exposes catalog browsing and trainer course management.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary Search courses
// @Description Case-insensitive search over title, description and instructor. "All" disables a filter.
// @Tags Courses
// @Produce json
// @Param q query string false "Search text"
// @Param category query string false "Category or All"
// @Param level query string false "Beginner, Intermediate, Advanced or All"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	start := time.Now()
	query := models.CourseQuery{
		Query:    c.Query("q"),
		Category: c.DefaultQuery("category", models.FilterAll),
		Level:    c.DefaultQuery("level", models.FilterAll),
	}

	courses, cacheHit, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.List(c, courses, len(courses), middleware.ResponseMeta(c, start))
}

// Popular godoc
// @Summary Most enrolled courses
// @Tags Courses
// @Produce json
// @Param limit query int false "Maximum number of courses" default(6)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/popular [get]
func (h *CourseHandler) Popular(c *gin.Context) {
	start := time.Now()
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	courses, cacheHit, err := h.service.Popular(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, courses, middleware.ResponseMeta(c, start))
}

// Filters godoc
// @Summary Catalog filter options
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/filters [get]
func (h *CourseHandler) Filters(c *gin.Context) {
	response.OK(c, h.service.Filters())
}

// Get godoc
// @Summary Course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create godoc
// @Summary Publish a course
// @Description Tags are a comma-separated string. Video ids and order are assigned by the server.
// @Tags Courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.Create(c.Request.Context(), service.Instructor{ID: claims.UserID, Name: claims.Name}, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Delete godoc
// @Summary Delete own course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
