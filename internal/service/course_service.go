package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/catalog"
	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type courseStore interface {
	Update(ctx context.Context, fn func(ctx context.Context) error) error
	Courses(ctx context.Context) ([]models.Course, error)
	SaveCourses(ctx context.Context, courses []models.Course) error
}

// CourseServiceConfig tunes catalog reads.
type CourseServiceConfig struct {
	PopularLimit int
	CacheTTL     time.Duration
}

// Instructor identifies the trainer publishing a course.
type Instructor struct {
	ID   string
	Name string
}

// CourseService handles catalog browsing and trainer course authoring.
type CourseService struct {
	store     courseStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       CourseServiceConfig
	now       func() time.Time
}

// NewCourseService constructs a CourseService.
func NewCourseService(store courseStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg CourseServiceConfig) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PopularLimit <= 0 {
		cfg.PopularLimit = 6
	}
	return &CourseService{store: store, cache: cache, validator: validate, logger: logger, cfg: cfg, now: time.Now}
}

// List searches the catalog. The boolean indicates whether data originated from cache.
func (s *CourseService) List(ctx context.Context, query models.CourseQuery) ([]models.Course, bool, error) {
	key := CatalogKey("search", query.Query, query.Category, query.Level)
	return s.cachedRead(ctx, key, func(courses []models.Course) []models.Course {
		return catalog.Search(courses, query.Query, query.Category, query.Level)
	})
}

// Popular returns the n most-enrolled courses. A non-positive n uses the configured default.
func (s *CourseService) Popular(ctx context.Context, n int) ([]models.Course, bool, error) {
	if n <= 0 {
		n = s.cfg.PopularLimit
	}
	key := CatalogKey("popular", strconv.Itoa(n))
	return s.cachedRead(ctx, key, func(courses []models.Course) []models.Course {
		return catalog.Popular(courses, n)
	})
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	courses, err := s.store.Courses(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfCourse(courses, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "course not found")
	}
	return &courses[idx], nil
}

// Filters returns the category and level options offered by the catalog.
func (s *CourseService) Filters() models.CourseFilters {
	return models.CourseFilters{
		Categories: slices.Clone(models.Categories),
		Levels:     slices.Clone(models.Levels),
	}
}

// Create publishes a new course owned by the instructor.
func (s *CourseService) Create(ctx context.Context, instructor Instructor, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !slices.Contains(models.Categories, req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown category %q", req.Category))
	}
	if instructor.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "instructor is required")
	}

	var created models.Course
	err := s.store.Update(ctx, func(ctx context.Context) error {
		courses, err := s.store.Courses(ctx)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		id := nextRecordID(now, func(id string) bool { return indexOfCourse(courses, id) >= 0 })
		created = buildCourse(id, instructor, req, now)
		return s.store.SaveCourses(ctx, append(courses, created))
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("course created", zap.String("course_id", created.ID), zap.String("instructor_id", instructor.ID))
	return &created, nil
}

// Delete removes a course owned by trainerID. Enrollments referencing it are left in place.
func (s *CourseService) Delete(ctx context.Context, trainerID, courseID string) error {
	err := s.store.Update(ctx, func(ctx context.Context) error {
		courses, err := s.store.Courses(ctx)
		if err != nil {
			return err
		}
		idx := indexOfCourse(courses, courseID)
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrCourseNotFound, "course not found")
		}
		if courses[idx].InstructorID != trainerID {
			return appErrors.Clone(appErrors.ErrForbidden, "course belongs to another trainer")
		}
		return s.store.SaveCourses(ctx, slices.Delete(courses, idx, idx+1))
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.logger.Info("course deleted", zap.String("course_id", courseID), zap.String("instructor_id", trainerID))
	return nil
}

// cachedRead serves key from cache or derives it from the store. A write that invalidates the
// catalog while the store is being read leaves the result uncached.
func (s *CourseService) cachedRead(ctx context.Context, key string, derive func([]models.Course) []models.Course) ([]models.Course, bool, error) {
	generation := s.cache.Generation()
	var cached []models.Course
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	courses, err := s.store.Courses(ctx)
	if err != nil {
		return nil, false, err
	}
	result := derive(courses)
	_, _ = s.cache.SetIfCurrent(ctx, generation, key, result, s.cfg.CacheTTL)
	return result, false, nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

func buildCourse(id string, instructor Instructor, req models.CreateCourseRequest, now time.Time) models.Course {
	thumbnail := strings.TrimSpace(req.Thumbnail)
	if thumbnail == "" {
		thumbnail = models.DefaultThumbnail
	}
	videos := make([]models.Video, len(req.Videos))
	for i, v := range req.Videos {
		videos[i] = models.Video{
			ID:       fmt.Sprintf("%d-%d", now.UnixMilli(), i),
			Title:    v.Title,
			Duration: v.Duration,
			URL:      v.URL,
			Order:    i + 1,
		}
	}
	return models.Course{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		Instructor:    instructor.Name,
		InstructorID:  instructor.ID,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Rating:        0,
		StudentsCount: 0,
		Duration:      req.Duration,
		Level:         req.Level,
		Category:      req.Category,
		Thumbnail:     thumbnail,
		Videos:        videos,
		Tags:          ParseTags(req.Tags),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ParseTags splits a comma-separated tag list, trimming whitespace and dropping empty entries.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
