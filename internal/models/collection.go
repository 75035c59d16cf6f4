package models

// Collection names a whole-array key in the record store.
type Collection string

const (
	CollectionUsers       Collection = "users"
	CollectionCourses     Collection = "courses"
	CollectionEnrollments Collection = "enrollments"
	CollectionReviews     Collection = "reviews"
)

// CurrentUserKey holds the singleton session record. Absent means logged out.
const CurrentUserKey = "currentUser"

// Collections lists every array collection in a stable order.
var Collections = []Collection{CollectionUsers, CollectionCourses, CollectionEnrollments, CollectionReviews}
