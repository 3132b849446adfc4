package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// DefaultPhoto is stored when a listing is created without a photo.
const DefaultPhoto = "no-photo.jpg"

// Record is implemented by every persisted entity.
type Record interface {
	GetID() string
	// Prepare assigns server-side fields. It is called before every write and is idempotent.
	Prepare(now time.Time)
}

// Listing holds the validated fields shared by bootcamps and courses.
type Listing struct {
	ID            string    `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	Name          string    `json:"name" bson:"name" gorm:"size:50;not null;uniqueIndex" validate:"required,max=50"`
	Slug          string    `json:"slug" bson:"slug" gorm:"size:100;index"`
	Description   string    `json:"description" bson:"description" gorm:"size:1000;not null" validate:"required,max=1000"`
	Website       string    `json:"website,omitempty" bson:"website,omitempty" gorm:"size:255" validate:"omitempty,website"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty" gorm:"size:20" validate:"max=20"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty" gorm:"size:255" validate:"omitempty,contact_email"`
	AverageRating float64   `json:"averageRating,omitempty" bson:"averageRating,omitempty" validate:"omitempty,min=1,max=10"`
	Photo         string    `json:"photo" bson:"photo" gorm:"size:255"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// GetID implements Record.
func (l *Listing) GetID() string {
	return l.ID
}

func (l *Listing) prepare(now time.Time) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now.UTC()
	}
	l.Name = strings.TrimSpace(l.Name)
	l.Slug = Slugify(l.Name)
	if l.Photo == "" {
		l.Photo = DefaultPhoto
	}
}

// Slugify derives the URL slug of a name: lower case, words joined by '-'.
func Slugify(name string) string {
	return slug.Make(name)
}
