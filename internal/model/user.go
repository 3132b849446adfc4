package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a user.
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// User is an account that can authenticate against the API.
type User struct {
	ID                  string     `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	UserName            string     `json:"userName" bson:"userName" gorm:"size:50;not null;uniqueIndex" validate:"required,max=50"`
	Email               *string    `json:"email,omitempty" bson:"email,omitempty" gorm:"size:255;uniqueIndex" validate:"omitempty,contact_email"`
	Password            string     `json:"-" bson:"password" gorm:"size:255;not null" validate:"required"`
	Role                Role       `json:"role" bson:"role" gorm:"size:20;not null;default:user" validate:"oneof=user publisher admin"`
	ResetPasswordToken  *string    `json:"-" bson:"resetPasswordToken,omitempty" gorm:"size:64;index"`
	ResetPasswordExpire *time.Time `json:"-" bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time  `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// GetID implements Record.
func (u *User) GetID() string {
	return u.ID
}

// Prepare implements Record.
func (u *User) Prepare(now time.Time) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now.UTC()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.UserName = strings.TrimSpace(u.UserName)
	if u.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*u.Email))
		if e == "" {
			u.Email = nil
		} else {
			u.Email = &e
		}
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ClearPasswordReset removes a pending password reset.
func (u *User) ClearPasswordReset() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
}
