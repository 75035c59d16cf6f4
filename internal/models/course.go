package models

import "time"

// CourseLevel is the difficulty tier of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// FilterAll disables a category or level filter.
const FilterAll = "All"

// DefaultThumbnail is used when a trainer publishes a course without artwork.
const DefaultThumbnail = "https://images.pexels.com/photos/1181671/pexels-photo-1181671.jpeg?auto=compress&cs=tinysrgb&w=500"

// Levels lists the selectable difficulty tiers in display order.
var Levels = []CourseLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Categories lists the catalog categories offered when authoring a course.
var Categories = []string{
	"Web Development",
	"Data Science",
	"Backend Development",
	"Mobile Development",
	"DevOps",
	"Artificial Intelligence",
	"Cybersecurity",
	"Game Development",
	"UI/UX Design",
	"Cloud Computing",
}

// Course is a published offering owned by a trainer.
type Course struct {
	ID            string      `json:"id" validate:"required"`
	Title         string      `json:"title" validate:"required"`
	Description   string      `json:"description"`
	Instructor    string      `json:"instructor"`
	InstructorID  string      `json:"instructorId" validate:"required"`
	Price         float64     `json:"price" validate:"gte=0"`
	OriginalPrice *float64    `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Rating        float64     `json:"rating" validate:"gte=0,lte=5"`
	StudentsCount int         `json:"studentsCount" validate:"gte=0"`
	Duration      string      `json:"duration"`
	Level         CourseLevel `json:"level" validate:"required,oneof=Beginner Intermediate Advanced"`
	Category      string      `json:"category"`
	Thumbnail     string      `json:"thumbnail"`
	Videos        []Video     `json:"videos" validate:"dive"`
	Tags          []string    `json:"tags"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Video is a single lesson inside a course. Order is 1-based.
type Video struct {
	ID       string `json:"id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
	Order    int    `json:"order" validate:"gte=1"`
}

// HasVideo reports whether videoID belongs to the course.
func (c *Course) HasVideo(videoID string) bool {
	for _, v := range c.Videos {
		if v.ID == videoID {
			return true
		}
	}
	return false
}

// CourseQuery captures catalog search filters.
type CourseQuery struct {
	Query    string
	Category string
	Level    string
}
