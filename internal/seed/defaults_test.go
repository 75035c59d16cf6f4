package seed

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsPassStoreValidation(t *testing.T) {
	validate := validator.New()
	data := Defaults()

	for i := range data.Users {
		require.NoError(t, validate.Struct(&data.Users[i]))
	}
	for i := range data.Courses {
		require.NoError(t, validate.Struct(&data.Courses[i]))
	}
	for i := range data.Enrollments {
		require.NoError(t, validate.Struct(&data.Enrollments[i]))
	}
}

func TestDefaultEnrollmentsReferenceKnownVideos(t *testing.T) {
	courses := Courses()
	byID := make(map[string]int, len(courses))
	for i, course := range courses {
		byID[course.ID] = i
	}

	for _, enrollment := range Enrollments() {
		idx, ok := byID[enrollment.CourseID]
		require.True(t, ok, "course %s", enrollment.CourseID)
		for _, videoID := range enrollment.CompletedVideos {
			assert.True(t, courses[idx].HasVideo(videoID), "video %s", videoID)
		}
	}
}

func TestDefaultsReturnIndependentCopies(t *testing.T) {
	a := Courses()
	a[0].Videos[0].Title = "changed"

	assert.Equal(t, "Introduction to React", Courses()[0].Videos[0].Title)
}
