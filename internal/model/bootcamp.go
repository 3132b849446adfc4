package model

import "time"

// BootcampCareers is the set of careers a bootcamp may list.
var BootcampCareers = []string{
	"Web Development",
	"Frontend Development",
	"Backend Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"AI/ML",
	"Business",
	"Other",
}

// Bootcamp is a training-program listing.
type Bootcamp struct {
	Listing     `bson:",inline"`
	Address     string   `json:"address" bson:"address" gorm:"size:255;not null" validate:"required"`
	Careers     []string `json:"careers" bson:"careers" gorm:"serializer:json;type:text" validate:"required,min=1,dive,bootcamp_career"`
	AverageCost float64  `json:"averageCost" bson:"averageCost" gorm:"not null;default:0" validate:"gte=0"`
}

// Prepare implements Record.
func (b *Bootcamp) Prepare(now time.Time) {
	b.Listing.prepare(now)
}
