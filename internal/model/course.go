package model

import "time"

// Course types.
const (
	CourseTypeFree    = "Free"
	CourseTypePremium = "Premium"
)

// CourseCareers is the set of careers a course may list.
var CourseCareers = []string{
	"Frontend Development",
	"Backend Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"AI/ML",
	"Business",
	"Other",
}

// Course is a sub-offering owned by exactly one user.
type Course struct {
	Listing    `bson:",inline"`
	Careers    []string `json:"careers" bson:"careers" gorm:"serializer:json;type:text" validate:"required,min=1,dive,course_career"`
	CourseType string   `json:"courseType" bson:"courseType" gorm:"size:20;not null;default:Free" validate:"oneof=Free Premium"`
	User       string   `json:"user" bson:"user" gorm:"type:varchar(36);not null;index" validate:"required"`
}

// Prepare implements Record.
func (c *Course) Prepare(now time.Time) {
	c.Listing.prepare(now)
	if c.CourseType == "" {
		c.CourseType = CourseTypeFree
	}
}

// OwnedBy reports whether userID owns the course.
func (c *Course) OwnedBy(userID string) bool {
	return c.User != "" && c.User == userID
}
