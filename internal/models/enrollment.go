package models

import "time"

// Enrollment ties a student to a course and tracks lesson completion.
type Enrollment struct {
	ID              string     `json:"id" validate:"required"`
	UserID          string     `json:"userId" validate:"required"`
	CourseID        string     `json:"courseId" validate:"required"`
	EnrolledAt      time.Time  `json:"enrolledAt"`
	Progress        int        `json:"progress" validate:"gte=0,lte=100"`
	CompletedVideos []string   `json:"completedVideos" validate:"unique"`
	LastWatched     *time.Time `json:"lastWatched,omitempty"`
}

// HasCompleted reports whether the video id is already in the completed set.
func (e *Enrollment) HasCompleted(videoID string) bool {
	for _, id := range e.CompletedVideos {
		if id == videoID {
			return true
		}
	}
	return false
}

// EnrolledCourse pairs a course with the caller's enrollment for dashboard listings.
type EnrolledCourse struct {
	Course       Course     `json:"course"`
	EnrollmentID string     `json:"enrollmentId"`
	Progress     int        `json:"progress"`
	LastWatched  *time.Time `json:"lastWatched,omitempty"`
}
