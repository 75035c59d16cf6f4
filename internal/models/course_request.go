package models

// CreateCourseRequest is the authoring payload submitted by a trainer.
// Tags arrive as one comma-separated string.
type CreateCourseRequest struct {
	Title         string         `json:"title" validate:"required,max=200"`
	Description   string         `json:"description" validate:"required"`
	Price         float64        `json:"price" validate:"gte=0"`
	OriginalPrice *float64       `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Duration      string         `json:"duration" validate:"required"`
	Level         CourseLevel    `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Category      string         `json:"category" validate:"required"`
	Thumbnail     string         `json:"thumbnail" validate:"omitempty,url"`
	Tags          string         `json:"tags"`
	Videos        []VideoRequest `json:"videos" validate:"required,min=1,dive"`
}

// VideoRequest describes one lesson of a new course. Ids and order are assigned on creation.
type VideoRequest struct {
	Title    string `json:"title" validate:"required"`
	Duration string `json:"duration" validate:"required"`
	URL      string `json:"url" validate:"required"`
}

// CourseFilters lists the selectable catalog filter values.
type CourseFilters struct {
	Categories []string      `json:"categories"`
	Levels     []CourseLevel `json:"levels"`
}
