// Package seed holds the catalog shipped with a fresh store.
package seed

import (
	"time"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func price(v float64) *float64 {
	return &v
}

func pexels(photo string) string {
	return "https://images.pexels.com/photos/" + photo + "/pexels-photo-" + photo + ".jpeg?auto=compress&cs=tinysrgb&w=500"
}

// Defaults returns fresh copies of the demo data written by RecordStore.Seed.
func Defaults() repository.SeedData {
	return repository.SeedData{
		Users:       Users(),
		Courses:     Courses(),
		Enrollments: Enrollments(),
	}
}

// Users returns the demo accounts referenced by the default courses and enrollments.
func Users() []models.User {
	return []models.User{
		{ID: "student1", Name: "Demo Student", Email: "student@learnhub.dev", Role: models.RoleStudent, JoinedDate: day(2024, time.January, 1)},
		{ID: "trainer1", Name: "Sarah Johnson", Email: "sarah.johnson@learnhub.dev", Role: models.RoleTrainer, JoinedDate: day(2023, time.December, 1)},
		{ID: "trainer2", Name: "Michael Chen", Email: "michael.chen@learnhub.dev", Role: models.RoleTrainer, JoinedDate: day(2023, time.December, 1)},
	}
}

// Courses returns the six demo courses.
func Courses() []models.Course {
	return []models.Course{
		{
			ID:            "1",
			Title:         "Complete React Development Bootcamp",
			Description:   "Master React from basics to advanced concepts including hooks, context, and state management.",
			Instructor:    "Sarah Johnson",
			InstructorID:  "trainer1",
			Price:         79.99,
			OriginalPrice: price(129.99),
			Rating:        4.8,
			StudentsCount: 1234,
			Duration:      "40 hours",
			Level:         models.LevelIntermediate,
			Category:      "Web Development",
			Thumbnail:     pexels("11035380"),
			Videos: []models.Video{
				{ID: "1", Title: "Introduction to React", Duration: "15:30", URL: "#", Order: 1},
				{ID: "2", Title: "Components and JSX", Duration: "22:45", URL: "#", Order: 2},
				{ID: "3", Title: "State and Props", Duration: "18:20", URL: "#", Order: 3},
			},
			Tags:      []string{"React", "JavaScript", "Frontend"},
			CreatedAt: day(2024, time.January, 15),
			UpdatedAt: day(2024, time.January, 20),
		},
		{
			ID:            "2",
			Title:         "Python Data Science Masterclass",
			Description:   "Learn data analysis, visualization, and machine learning with Python.",
			Instructor:    "Michael Chen",
			InstructorID:  "trainer2",
			Price:         99.99,
			OriginalPrice: price(149.99),
			Rating:        4.9,
			StudentsCount: 2156,
			Duration:      "60 hours",
			Level:         models.LevelAdvanced,
			Category:      "Data Science",
			Thumbnail:     pexels("1181671"),
			Videos: []models.Video{
				{ID: "4", Title: "Python Fundamentals", Duration: "25:15", URL: "#", Order: 1},
				{ID: "5", Title: "NumPy and Pandas", Duration: "35:40", URL: "#", Order: 2},
			},
			Tags:      []string{"Python", "Data Science", "Machine Learning"},
			CreatedAt: day(2024, time.January, 10),
			UpdatedAt: day(2024, time.January, 18),
		},
		{
			ID:            "3",
			Title:         "Node.js Backend Development",
			Description:   "Build scalable backend applications with Node.js, Express, and MongoDB.",
			Instructor:    "David Rodriguez",
			InstructorID:  "trainer3",
			Price:         89.99,
			Rating:        4.7,
			StudentsCount: 897,
			Duration:      "35 hours",
			Level:         models.LevelIntermediate,
			Category:      "Backend Development",
			Thumbnail:     pexels("1181472"),
			Videos: []models.Video{
				{ID: "6", Title: "Node.js Basics", Duration: "20:30", URL: "#", Order: 1},
				{ID: "7", Title: "Express Framework", Duration: "28:15", URL: "#", Order: 2},
			},
			Tags:      []string{"Node.js", "Express", "MongoDB"},
			CreatedAt: day(2024, time.January, 12),
			UpdatedAt: day(2024, time.January, 22),
		},
		{
			ID:            "4",
			Title:         "Mobile App Development with Flutter",
			Description:   "Create beautiful cross-platform mobile apps using Flutter and Dart.",
			Instructor:    "Emily Wang",
			InstructorID:  "trainer4",
			Price:         119.99,
			OriginalPrice: price(179.99),
			Rating:        4.6,
			StudentsCount: 743,
			Duration:      "50 hours",
			Level:         models.LevelBeginner,
			Category:      "Mobile Development",
			Thumbnail:     pexels("607812"),
			Videos: []models.Video{
				{ID: "8", Title: "Flutter Introduction", Duration: "18:45", URL: "#", Order: 1},
				{ID: "9", Title: "Dart Programming", Duration: "24:30", URL: "#", Order: 2},
			},
			Tags:      []string{"Flutter", "Dart", "Mobile"},
			CreatedAt: day(2024, time.January, 8),
			UpdatedAt: day(2024, time.January, 25),
		},
		{
			ID:            "5",
			Title:         "DevOps with Docker and Kubernetes",
			Description:   "Master containerization and orchestration for modern application deployment.",
			Instructor:    "Alex Kumar",
			InstructorID:  "trainer5",
			Price:         149.99,
			Rating:        4.8,
			StudentsCount: 567,
			Duration:      "45 hours",
			Level:         models.LevelAdvanced,
			Category:      "DevOps",
			Thumbnail:     pexels("1181298"),
			Videos: []models.Video{
				{ID: "10", Title: "Docker Fundamentals", Duration: "30:20", URL: "#", Order: 1},
				{ID: "11", Title: "Kubernetes Basics", Duration: "40:15", URL: "#", Order: 2},
			},
			Tags:      []string{"Docker", "Kubernetes", "DevOps"},
			CreatedAt: day(2024, time.January, 5),
			UpdatedAt: day(2024, time.January, 28),
		},
		{
			ID:            "6",
			Title:         "AI and Machine Learning Foundations",
			Description:   "Introduction to artificial intelligence and machine learning concepts.",
			Instructor:    "Dr. Lisa Thompson",
			InstructorID:  "trainer6",
			Price:         199.99,
			OriginalPrice: price(299.99),
			Rating:        4.9,
			StudentsCount: 1876,
			Duration:      "70 hours",
			Level:         models.LevelIntermediate,
			Category:      "Artificial Intelligence",
			Thumbnail:     pexels("8386440"),
			Videos: []models.Video{
				{ID: "12", Title: "AI Overview", Duration: "35:10", URL: "#", Order: 1},
				{ID: "13", Title: "Neural Networks", Duration: "45:25", URL: "#", Order: 2},
			},
			Tags:      []string{"AI", "Machine Learning", "Neural Networks"},
			CreatedAt: day(2024, time.January, 3),
			UpdatedAt: day(2024, time.January, 30),
		},
	}
}

// Enrollments returns the demo student's two in-progress enrollments.
func Enrollments() []models.Enrollment {
	first := day(2024, time.January, 30)
	second := day(2024, time.January, 28)
	return []models.Enrollment{
		{
			ID:              "1",
			UserID:          "student1",
			CourseID:        "1",
			EnrolledAt:      day(2024, time.January, 20),
			Progress:        65,
			CompletedVideos: []string{"1", "2"},
			LastWatched:     &first,
		},
		{
			ID:              "2",
			UserID:          "student1",
			CourseID:        "3",
			EnrolledAt:      day(2024, time.January, 25),
			Progress:        30,
			CompletedVideos: []string{"6"},
			LastWatched:     &second,
		},
	}
}
