package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

var fixedNow = time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testCourses() []models.Course {
	return []models.Course{
		{
			ID: "c1", Title: "Go Fundamentals", Instructor: "Ana Trainer", InstructorID: "trainer1",
			Price: 50, Rating: 4.5, StudentsCount: 10, Duration: "10 hours", Level: models.LevelBeginner, Category: "Backend Development",
			Videos: []models.Video{
				{ID: "v1", Title: "Intro", Order: 1},
				{ID: "v2", Title: "Types", Order: 2},
				{ID: "v3", Title: "Interfaces", Order: 3},
			},
		},
		{
			ID: "c2", Title: "Python Data Science Masterclass", Instructor: "Bo Trainer", InstructorID: "trainer2",
			Price: 100, Rating: 4.9, StudentsCount: 200, Duration: "60 hours", Level: models.LevelAdvanced, Category: "Data Science",
			Videos: []models.Video{{ID: "v4", Title: "NumPy", Order: 1}},
		},
		{
			ID: "c3", Title: "Empty Course", Instructor: "Ana Trainer", InstructorID: "trainer1",
			Price: 10, Rating: 4.1, StudentsCount: 2, Duration: "1 hours", Level: models.LevelBeginner, Category: "DevOps",
		},
	}
}

func newTestStore(t *testing.T, courses []models.Course, enrollments []models.Enrollment) *repository.RecordStore {
	t.Helper()
	store := repository.NewRecordStore(repository.NewMemoryBackend(), nil, nil, nil)
	ctx := context.Background()
	if courses != nil {
		require.NoError(t, store.SaveCourses(ctx, courses))
	}
	if enrollments != nil {
		require.NoError(t, store.SaveEnrollments(ctx, enrollments))
	}
	return store
}
