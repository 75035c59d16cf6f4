package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type storeMetrics interface {
	ObserveStoreOperation(op, collection string, duration time.Duration)
	RecordStorageCorrupt(collection string)
}

type nopStoreMetrics struct{}

func (nopStoreMetrics) ObserveStoreOperation(string, string, time.Duration) {}
func (nopStoreMetrics) RecordStorageCorrupt(string)                         {}

// RecordStore reads and replaces whole collections through a Backend.
// Stored data is validated on the way in and out; a collection that fails to decode or validate
// is reported as corrupt and served as empty.
type RecordStore struct {
	backend  Backend
	validate *validator.Validate
	logger   *zap.Logger
	metrics  storeMetrics

	mu sync.Mutex
}

// NewRecordStore constructs a RecordStore.
func NewRecordStore(backend Backend, validate *validator.Validate, logger *zap.Logger, metrics storeMetrics) *RecordStore {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopStoreMetrics{}
	}
	return &RecordStore{backend: backend, validate: validate, logger: logger, metrics: metrics}
}

// Change replaces one collection as part of a Commit.
type Change struct {
	Collection models.Collection
	encode     func(*validator.Validate) ([]byte, error)
}

// Replace builds a Change that overwrites collection with records.
func Replace[T any](collection models.Collection, records []T) Change {
	return Change{
		Collection: collection,
		encode: func(validate *validator.Validate) ([]byte, error) {
			if records == nil {
				records = []T{}
			}
			for i := range records {
				if err := validate.Struct(&records[i]); err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
						fmt.Sprintf("invalid %s record at index %d", collection, i))
				}
			}
			return json.Marshal(records)
		},
	}
}

// SeedData holds default records written on first use.
type SeedData struct {
	Users       []models.User
	Courses     []models.Course
	Enrollments []models.Enrollment
	Reviews     []models.Review
}

// Update serialises a read-modify-write cycle against other Update callers in this process.
func (s *RecordStore) Update(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}

// Commit validates and writes every change in one backend write.
func (s *RecordStore) Commit(ctx context.Context, changes ...Change) error {
	if len(changes) == 0 {
		return nil
	}
	entries := make(map[string][]byte, len(changes))
	for _, change := range changes {
		payload, err := change.encode(s.validate)
		if err != nil {
			return err
		}
		entries[string(change.Collection)] = payload
	}

	start := time.Now()
	err := s.backend.Write(ctx, entries)
	for _, change := range changes {
		s.metrics.ObserveStoreOperation("save", string(change.Collection), time.Since(start))
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist collections")
	}
	return nil
}

// Users loads the users collection.
func (s *RecordStore) Users(ctx context.Context) ([]models.User, error) {
	return loadCollection[models.User](ctx, s, models.CollectionUsers)
}

// Courses loads the courses collection.
func (s *RecordStore) Courses(ctx context.Context) ([]models.Course, error) {
	return loadCollection[models.Course](ctx, s, models.CollectionCourses)
}

// Enrollments loads the enrollments collection.
func (s *RecordStore) Enrollments(ctx context.Context) ([]models.Enrollment, error) {
	return loadCollection[models.Enrollment](ctx, s, models.CollectionEnrollments)
}

// Reviews loads the reviews collection.
func (s *RecordStore) Reviews(ctx context.Context) ([]models.Review, error) {
	return loadCollection[models.Review](ctx, s, models.CollectionReviews)
}

// SaveUsers replaces the users collection.
func (s *RecordStore) SaveUsers(ctx context.Context, users []models.User) error {
	return s.Commit(ctx, Replace(models.CollectionUsers, users))
}

// SaveCourses replaces the courses collection.
func (s *RecordStore) SaveCourses(ctx context.Context, courses []models.Course) error {
	return s.Commit(ctx, Replace(models.CollectionCourses, courses))
}

// SaveEnrollments replaces the enrollments collection.
func (s *RecordStore) SaveEnrollments(ctx context.Context, enrollments []models.Enrollment) error {
	return s.Commit(ctx, Replace(models.CollectionEnrollments, enrollments))
}

// SaveReviews replaces the reviews collection.
func (s *RecordStore) SaveReviews(ctx context.Context, reviews []models.Review) error {
	return s.Commit(ctx, Replace(models.CollectionReviews, reviews))
}

// Seed writes defaults into collections that are absent or hold no records.
// Corrupt collections are left untouched. It returns the collections it initialised.
func (s *RecordStore) Seed(ctx context.Context, defaults SeedData) ([]models.Collection, error) {
	var seeded []models.Collection
	err := s.Update(ctx, func(ctx context.Context) error {
		var changes []Change
		add := func(collection models.Collection, size int, change Change) error {
			if size == 0 {
				return nil
			}
			empty, err := s.isEmpty(ctx, collection)
			if err != nil {
				return err
			}
			if empty {
				changes = append(changes, change)
				seeded = append(seeded, collection)
			}
			return nil
		}
		if err := add(models.CollectionUsers, len(defaults.Users), Replace(models.CollectionUsers, defaults.Users)); err != nil {
			return err
		}
		if err := add(models.CollectionCourses, len(defaults.Courses), Replace(models.CollectionCourses, defaults.Courses)); err != nil {
			return err
		}
		if err := add(models.CollectionEnrollments, len(defaults.Enrollments), Replace(models.CollectionEnrollments, defaults.Enrollments)); err != nil {
			return err
		}
		if err := add(models.CollectionReviews, len(defaults.Reviews), Replace(models.CollectionReviews, defaults.Reviews)); err != nil {
			return err
		}
		return s.Commit(ctx, changes...)
	})
	if err != nil {
		return nil, err
	}
	if len(seeded) > 0 {
		s.logger.Info("record store seeded", zap.Any("collections", seeded))
	}
	return seeded, nil
}

// CurrentUser returns the active session user.
func (s *RecordStore) CurrentUser(ctx context.Context) (*models.User, error) {
	start := time.Now()
	raw, err := s.backend.Read(ctx, models.CurrentUserKey)
	s.metrics.ObserveStoreOperation("load", models.CurrentUserKey, time.Since(start))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, appErrors.ErrNoSession
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.reportCorrupt(models.CurrentUserKey, err)
		return nil, appErrors.ErrNoSession
	}
	if err := s.validate.Struct(&user); err != nil {
		s.reportCorrupt(models.CurrentUserKey, err)
		return nil, appErrors.ErrNoSession
	}
	return &user, nil
}

// SetCurrentUser stores the session singleton.
func (s *RecordStore) SetCurrentUser(ctx context.Context, user models.User) error {
	if err := s.validate.Struct(&user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session user")
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode session")
	}
	start := time.Now()
	err = s.backend.Write(ctx, map[string][]byte{models.CurrentUserKey: payload})
	s.metrics.ObserveStoreOperation("save", models.CurrentUserKey, time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return nil
}

// ClearCurrentUser removes the session singleton.
func (s *RecordStore) ClearCurrentUser(ctx context.Context) error {
	if err := s.backend.Delete(ctx, models.CurrentUserKey); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

// Close releases the backend.
func (s *RecordStore) Close() error {
	return s.backend.Close()
}

func (s *RecordStore) isEmpty(ctx context.Context, collection models.Collection) (bool, error) {
	raw, err := s.backend.Read(ctx, string(collection))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return true, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect collection")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return len(bytes.TrimSpace(raw)) == 0, nil
	}
	return len(items) == 0, nil
}

func (s *RecordStore) reportCorrupt(collection string, err error) {
	s.logger.Warn("stored collection is corrupt, serving empty", zap.String("collection", collection), zap.Error(err))
	s.metrics.RecordStorageCorrupt(collection)
}

func loadCollection[T any](ctx context.Context, s *RecordStore, collection models.Collection) ([]T, error) {
	start := time.Now()
	raw, err := s.backend.Read(ctx, string(collection))
	s.metrics.ObserveStoreOperation("load", string(collection), time.Since(start))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []T{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("failed to load %s", collection))
	}
	records, err := decodeCollection[T](s.validate, raw)
	if err != nil {
		s.reportCorrupt(string(collection), err)
		return []T{}, nil
	}
	return records, nil
}

func decodeCollection[T any](validate *validator.Validate, raw []byte) ([]T, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageCorrupt.Code, appErrors.ErrStorageCorrupt.Status, "decode collection")
	}
	if records == nil {
		return []T{}, nil
	}
	for i := range records {
		if err := validate.Struct(&records[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorageCorrupt.Code, appErrors.ErrStorageCorrupt.Status,
				fmt.Sprintf("record %d failed validation", i))
		}
	}
	return records, nil
}
