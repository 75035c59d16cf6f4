package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/catalog"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type enrollmentStore interface {
	Update(ctx context.Context, fn func(ctx context.Context) error) error
	Courses(ctx context.Context) ([]models.Course, error)
	Enrollments(ctx context.Context) ([]models.Enrollment, error)
	SaveEnrollments(ctx context.Context, enrollments []models.Enrollment) error
	Commit(ctx context.Context, changes ...repository.Change) error
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

// EnrollmentService enrolls students and tracks per-video completion.
type EnrollmentService struct {
	store   enrollmentStore
	cache   catalogInvalidator
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewEnrollmentService constructs the enrollment engine.
func NewEnrollmentService(store enrollmentStore, cache catalogInvalidator, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now}
}

// Enroll creates an enrollment at zero progress and bumps the course's student count.
// Both collections are written in one commit.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if userID == "" || courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id and course id are required")
	}

	var created models.Enrollment
	err := s.store.Update(ctx, func(ctx context.Context) error {
		courses, err := s.store.Courses(ctx)
		if err != nil {
			return err
		}
		idx := indexOfCourse(courses, courseID)
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrCourseNotFound, "course not found")
		}

		enrollments, err := s.store.Enrollments(ctx)
		if err != nil {
			return err
		}
		ids := make(map[string]struct{}, len(enrollments))
		for _, enrollment := range enrollments {
			if enrollment.UserID == userID && enrollment.CourseID == courseID {
				return appErrors.Clone(appErrors.ErrAlreadyEnrolled, "already enrolled in this course")
			}
			ids[enrollment.ID] = struct{}{}
		}

		now := s.now().UTC()
		created = models.Enrollment{
			ID: nextRecordID(now, func(id string) bool {
				_, ok := ids[id]
				return ok
			}),
			UserID:          userID,
			CourseID:        courseID,
			EnrolledAt:      now,
			Progress:        0,
			CompletedVideos: []string{},
		}
		courses[idx].StudentsCount++

		return s.store.Commit(ctx,
			repository.Replace(models.CollectionEnrollments, append(enrollments, created)),
			repository.Replace(models.CollectionCourses, courses),
		)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEnrollment()
	s.invalidateCatalog(ctx)
	s.logger.Info("student enrolled", zap.String("user_id", userID), zap.String("course_id", courseID), zap.String("enrollment_id", created.ID))
	return &created, nil
}

// MarkVideoComplete adds videoID to the enrollment's completed set and recomputes progress.
// Completing an already-completed video only refreshes lastWatched.
func (s *EnrollmentService) MarkVideoComplete(ctx context.Context, enrollmentID, videoID string) (*models.Enrollment, error) {
	return s.markVideoComplete(ctx, "", enrollmentID, videoID)
}

// MarkVideoCompleteForUser is MarkVideoComplete restricted to enrollments owned by userID.
// Enrollments owned by someone else are reported as not found.
func (s *EnrollmentService) MarkVideoCompleteForUser(ctx context.Context, userID, enrollmentID, videoID string) (*models.Enrollment, error) {
	return s.markVideoComplete(ctx, userID, enrollmentID, videoID)
}

func (s *EnrollmentService) markVideoComplete(ctx context.Context, ownerID, enrollmentID, videoID string) (*models.Enrollment, error) {
	var updated models.Enrollment
	newlyCompleted := false
	err := s.store.Update(ctx, func(ctx context.Context) error {
		enrollments, err := s.store.Enrollments(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range enrollments {
			if enrollments[i].ID == enrollmentID {
				idx = i
				break
			}
		}
		if idx < 0 || (ownerID != "" && enrollments[idx].UserID != ownerID) {
			return appErrors.Clone(appErrors.ErrNotEnrolled, "enrollment not found")
		}

		courses, err := s.store.Courses(ctx)
		if err != nil {
			return err
		}
		courseIdx := indexOfCourse(courses, enrollments[idx].CourseID)
		if courseIdx < 0 {
			return appErrors.Clone(appErrors.ErrCourseNotFound, "course not found")
		}
		course := courses[courseIdx]
		if !course.HasVideo(videoID) {
			return appErrors.Clone(appErrors.ErrUnknownVideo, "video does not belong to this course")
		}

		enrollment := enrollments[idx]
		completed := append([]string{}, enrollment.CompletedVideos...)
		if !enrollment.HasCompleted(videoID) {
			completed = append(completed, videoID)
			newlyCompleted = true
		}
		watched := s.now().UTC()
		enrollment.CompletedVideos = completed
		enrollment.Progress = progressPercent(len(completed), len(course.Videos))
		enrollment.LastWatched = &watched
		enrollments[idx] = enrollment
		updated = enrollment

		return s.store.SaveEnrollments(ctx, enrollments)
	})
	if err != nil {
		return nil, err
	}

	if newlyCompleted {
		s.metrics.RecordVideoCompletion()
	}
	return &updated, nil
}

// ProgressFor returns the user's progress in a course and whether an enrollment exists.
func (s *EnrollmentService) ProgressFor(ctx context.Context, userID, courseID string) (int, bool, error) {
	enrollment, err := s.EnrollmentFor(ctx, userID, courseID)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotEnrolled) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return enrollment.Progress, true, nil
}

// EnrollmentFor returns the enrollment binding userID to courseID.
func (s *EnrollmentService) EnrollmentFor(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	enrollments, err := s.store.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range enrollments {
		if enrollments[i].UserID == userID && enrollments[i].CourseID == courseID {
			return &enrollments[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotEnrolled, "not enrolled in this course")
}

// ListForUser returns the user's enrollments joined with their courses.
func (s *EnrollmentService) ListForUser(ctx context.Context, userID string) ([]models.EnrolledCourse, error) {
	courses, err := s.store.Courses(ctx)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.store.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.EnrolledCourses(userID, courses, enrollments), nil
}

func (s *EnrollmentService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

// progressPercent is the rounded share of completed videos, capped at 100. No videos means 0.
func progressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

func indexOfCourse(courses []models.Course, courseID string) int {
	for i := range courses {
		if courses[i].ID == courseID {
			return i
		}
	}
	return -1
}
