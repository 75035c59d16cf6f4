package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	MarkVideoCompleteForUser(ctx context.Context, userID, enrollmentID, videoID string) (*models.Enrollment, error)
	ProgressFor(ctx context.Context, userID, courseID string) (int, bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.EnrolledCourse, error)
}

// EnrollmentHandler exposes enrollment and lesson completion endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

type progressResponse struct {
	CourseID string `json:"courseId"`
	Enrolled bool   `json:"enrolled"`
	Progress int    `json:"progress"`
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Enrollments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Progress godoc
// @Summary Progress in a course
// @Tags Enrollments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/progress [get]
func (h *EnrollmentHandler) Progress(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	courseID := c.Param("id")
	progress, enrolled, err := h.service.ProgressFor(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, progressResponse{CourseID: courseID, Enrolled: enrolled, Progress: progress})
}

// List godoc
// @Summary Caller's enrollments
// @Tags Enrollments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	items, err := h.service.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// CompleteVideo godoc
// @Summary Mark a video complete
// @Description Completing the same video twice leaves progress unchanged
// @Tags Enrollments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param videoId path string true "Video ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/videos/{videoId}/complete [post]
func (h *EnrollmentHandler) CompleteVideo(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	enrollment, err := h.service.MarkVideoCompleteForUser(c.Request.Context(), claims.UserID, c.Param("id"), c.Param("videoId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}
