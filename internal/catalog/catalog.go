// Package catalog derives search results, rankings and dashboard statistics from loaded collections.
// Every function is pure: inputs are never mutated and the store is never touched.
package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// Search filters courses by a case-insensitive substring over title, description and instructor,
// plus exact category and level matches. "All" or an empty filter disables that filter.
func Search(courses []models.Course, query, category, level string) []models.Course {
	needle := strings.ToLower(query)
	result := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if needle != "" && !matchesText(course, needle) {
			continue
		}
		if isActiveFilter(category) && course.Category != category {
			continue
		}
		if isActiveFilter(level) && string(course.Level) != level {
			continue
		}
		result = append(result, course)
	}
	return result
}

func matchesText(course models.Course, needle string) bool {
	return strings.Contains(strings.ToLower(course.Title), needle) ||
		strings.Contains(strings.ToLower(course.Description), needle) ||
		strings.Contains(strings.ToLower(course.Instructor), needle)
}

func isActiveFilter(value string) bool {
	return value != "" && value != models.FilterAll
}

// Popular returns at most n courses ordered by student count, ties kept in input order.
func Popular(courses []models.Course, n int) []models.Course {
	if n <= 0 {
		return []models.Course{}
	}
	sorted := make([]models.Course, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StudentsCount > sorted[j].StudentsCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ParseHours reads the leading integer of the first space-separated token of a duration label.
// "40 hours" yields 40 and "12h" yields 12. No leading digits, or a digit run too large for an int, yields 0.
func ParseHours(duration string) int {
	token := duration
	if idx := strings.IndexByte(duration, ' '); idx >= 0 {
		token = duration[:idx]
	}
	sign := 1
	switch {
	case strings.HasPrefix(token, "-"):
		sign = -1
		token = token[1:]
	case strings.HasPrefix(token, "+"):
		token = token[1:]
	}
	end := 0
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	hours, err := strconv.Atoi(token[:end])
	if err != nil {
		return 0
	}
	return sign * hours
}

// TrainerCourses returns the courses owned by trainerID in input order.
func TrainerCourses(trainerID string, courses []models.Course) []models.Course {
	result := make([]models.Course, 0)
	for _, course := range courses {
		if course.InstructorID == trainerID {
			result = append(result, course)
		}
	}
	return result
}

// UserEnrollments returns the enrollments belonging to userID.
func UserEnrollments(userID string, enrollments []models.Enrollment) []models.Enrollment {
	result := make([]models.Enrollment, 0)
	for _, enrollment := range enrollments {
		if enrollment.UserID == userID {
			result = append(result, enrollment)
		}
	}
	return result
}

// EnrolledCourses pairs each of the user's enrollments with its course.
// Enrollments whose course no longer exists are skipped.
func EnrolledCourses(userID string, courses []models.Course, enrollments []models.Enrollment) []models.EnrolledCourse {
	byID := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}
	result := make([]models.EnrolledCourse, 0)
	for _, enrollment := range UserEnrollments(userID, enrollments) {
		course, ok := byID[enrollment.CourseID]
		if !ok {
			continue
		}
		result = append(result, models.EnrolledCourse{
			Course:       course,
			EnrollmentID: enrollment.ID,
			Progress:     enrollment.Progress,
			LastWatched:  enrollment.LastWatched,
		})
	}
	return result
}

// StudentStats summarises a student's learning. Hours come from enrolled courses that still exist,
// completion and average progress from every enrollment the student holds.
func StudentStats(userID string, courses []models.Course, enrollments []models.Enrollment) models.StudentStats {
	enrolled := EnrolledCourses(userID, courses, enrollments)
	mine := UserEnrollments(userID, enrollments)

	stats := models.StudentStats{EnrolledCount: len(enrolled)}
	for _, item := range enrolled {
		stats.TotalHours += ParseHours(item.Course.Duration)
	}
	if len(mine) == 0 {
		return stats
	}
	total := 0
	for _, enrollment := range mine {
		total += enrollment.Progress
		if enrollment.Progress == 100 {
			stats.CompletedCount++
		}
	}
	stats.AverageProgress = int(math.Round(float64(total) / float64(len(mine))))
	return stats
}

// TrainerStats summarises the courses owned by trainerID. Average rating is the plain mean of the course ratings.
func TrainerStats(trainerID string, courses []models.Course) models.TrainerStats {
	owned := TrainerCourses(trainerID, courses)
	stats := models.TrainerStats{CourseCount: len(owned)}
	if len(owned) == 0 {
		return stats
	}
	rating := 0.0
	for _, course := range owned {
		stats.TotalStudents += course.StudentsCount
		stats.TotalRevenue += Revenue(course)
		rating += course.Rating
	}
	stats.AverageRating = rating / float64(len(owned))
	return stats
}

// Revenue is the course price multiplied by its student count.
func Revenue(course models.Course) float64 {
	return course.Price * float64(course.StudentsCount)
}

// ContinueLearning returns enrolled courses that are started but not finished.
func ContinueLearning(userID string, courses []models.Course, enrollments []models.Enrollment) []models.EnrolledCourse {
	result := make([]models.EnrolledCourse, 0)
	for _, item := range EnrolledCourses(userID, courses, enrollments) {
		if item.Progress > 0 && item.Progress < 100 {
			result = append(result, item)
		}
	}
	return result
}

// RecentlyAccessed returns up to n enrolled courses, most recently watched first.
// Courses never watched sort after every watched one.
func RecentlyAccessed(userID string, courses []models.Course, enrollments []models.Enrollment, n int) []models.EnrolledCourse {
	if n <= 0 {
		return []models.EnrolledCourse{}
	}
	items := EnrolledCourses(userID, courses, enrollments)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].LastWatched, items[j].LastWatched
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
