package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/catalog"
	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/export"
)

// recentlyAccessedLimit bounds the "recently accessed" strip on the student dashboard.
const recentlyAccessedLimit = 3

type dashboardStore interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Enrollments(ctx context.Context) ([]models.Enrollment, error)
}

// DashboardService assembles student and trainer dashboards and trainer reports.
type DashboardService struct {
	store  dashboardStore
	logger *zap.Logger
	now    func() time.Time
}

// ReportFile is a rendered report ready for download.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(store dashboardStore, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, logger: logger, now: time.Now}
}

// StudentDashboard returns stats and course lists for userID.
func (s *DashboardService) StudentDashboard(ctx context.Context, userID string) (*models.StudentDashboard, error) {
	courses, enrollments, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &models.StudentDashboard{
		Stats:            catalog.StudentStats(userID, courses, enrollments),
		Enrolled:         catalog.EnrolledCourses(userID, courses, enrollments),
		ContinueLearning: catalog.ContinueLearning(userID, courses, enrollments),
		RecentlyAccessed: catalog.RecentlyAccessed(userID, courses, enrollments, recentlyAccessedLimit),
	}, nil
}

// TrainerDashboard returns stats and owned courses for trainerID.
func (s *DashboardService) TrainerDashboard(ctx context.Context, trainerID string) (*models.TrainerDashboard, error) {
	courses, err := s.store.Courses(ctx)
	if err != nil {
		return nil, err
	}
	owned := catalog.TrainerCourses(trainerID, courses)
	summaries := make([]models.TrainerCourseSummary, 0, len(owned))
	for _, course := range owned {
		summaries = append(summaries, models.TrainerCourseSummary{Course: course, Revenue: catalog.Revenue(course)})
	}
	return &models.TrainerDashboard{
		Stats:   catalog.TrainerStats(trainerID, courses),
		Courses: summaries,
	}, nil
}

// TrainerReport renders the trainer's courses as a CSV or PDF table.
func (s *DashboardService) TrainerReport(ctx context.Context, trainerID string, format string) (*ReportFile, error) {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	renderer, err := export.NewRenderer(parsed)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	dashboard, err := s.TrainerDashboard(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	data, err := renderer.Render(trainerDataset(dashboard, generatedAt))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.logger.Info("trainer report generated", zap.String("trainer_id", trainerID), zap.String("format", string(parsed)), zap.Int("courses", len(dashboard.Courses)))
	return &ReportFile{
		Filename:    fmt.Sprintf("trainer-report-%s.%s", generatedAt.Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

var trainerReportHeaders = []string{"Title", "Level", "Students", "Price", "Revenue", "Rating"}

func trainerDataset(dashboard *models.TrainerDashboard, generatedAt time.Time) export.Dataset {
	rows := make([]map[string]string, 0, len(dashboard.Courses)+1)
	for _, summary := range dashboard.Courses {
		rows = append(rows, map[string]string{
			"Title":    summary.Course.Title,
			"Level":    string(summary.Course.Level),
			"Students": strconv.Itoa(summary.Course.StudentsCount),
			"Price":    formatMoney(summary.Course.Price),
			"Revenue":  formatMoney(summary.Revenue),
			"Rating":   strconv.FormatFloat(summary.Course.Rating, 'f', 1, 64),
		})
	}
	stats := dashboard.Stats
	rows = append(rows, map[string]string{
		"Title":    "Total",
		"Students": strconv.Itoa(stats.TotalStudents),
		"Revenue":  formatMoney(stats.TotalRevenue),
		"Rating":   strconv.FormatFloat(stats.AverageRating, 'f', 1, 64),
	})
	return export.Dataset{
		Title:   "Trainer report " + generatedAt.Format("2006-01-02"),
		Headers: trainerReportHeaders,
		Rows:    rows,
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *DashboardService) load(ctx context.Context) ([]models.Course, []models.Enrollment, error) {
	courses, err := s.store.Courses(ctx)
	if err != nil {
		return nil, nil, err
	}
	enrollments, err := s.store.Enrollments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return courses, enrollments, nil
}
