package models

import "time"

// Review is persisted alongside the other collections but nothing aggregates it yet.
type Review struct {
	ID        string    `json:"id" validate:"required"`
	UserID    string    `json:"userId" validate:"required"`
	CourseID  string    `json:"courseId" validate:"required"`
	Rating    float64   `json:"rating" validate:"gte=0,lte=5"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UserName  string    `json:"userName"`
}
