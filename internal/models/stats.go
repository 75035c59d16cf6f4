package models

// StudentStats summarises a student's learning activity.
type StudentStats struct {
	EnrolledCount   int `json:"enrolledCount"`
	TotalHours      int `json:"totalHours"`
	CompletedCount  int `json:"completedCount"`
	AverageProgress int `json:"averageProgress"`
}

// TrainerStats summarises a trainer's catalogue performance.
type TrainerStats struct {
	CourseCount   int     `json:"courseCount"`
	TotalStudents int     `json:"totalStudents"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AverageRating float64 `json:"averageRating"`
}
