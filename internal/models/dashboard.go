package models

// StudentDashboard aggregates a student's learning overview.
type StudentDashboard struct {
	Stats            StudentStats     `json:"stats"`
	Enrolled         []EnrolledCourse `json:"enrolled"`
	ContinueLearning []EnrolledCourse `json:"continueLearning"`
	RecentlyAccessed []EnrolledCourse `json:"recentlyAccessed"`
}

// TrainerCourseSummary is a trainer-owned course with its derived revenue.
type TrainerCourseSummary struct {
	Course  Course  `json:"course"`
	Revenue float64 `json:"revenue"`
}

// TrainerDashboard aggregates a trainer's catalogue performance.
type TrainerDashboard struct {
	Stats   TrainerStats           `json:"stats"`
	Courses []TrainerCourseSummary `json:"courses"`
}
