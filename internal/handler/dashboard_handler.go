package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

type dashboardService interface {
	StudentDashboard(ctx context.Context, userID string) (*models.StudentDashboard, error)
	TrainerDashboard(ctx context.Context, trainerID string) (*models.TrainerDashboard, error)
	TrainerReport(ctx context.Context, trainerID, format string) (*service.ReportFile, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Student godoc
// @Summary Student dashboard
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/student [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	dashboard, err := h.service.StudentDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dashboard)
}

// Trainer godoc
// @Summary Trainer dashboard
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/trainer [get]
func (h *DashboardHandler) Trainer(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	dashboard, err := h.service.TrainerDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dashboard)
}

// TrainerReport godoc
// @Summary Download trainer course report
// @Tags Reports
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/trainer [get]
func (h *DashboardHandler) TrainerReport(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	file, err := h.service.TrainerReport(c.Request.Context(), claims.UserID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
