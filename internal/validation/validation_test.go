package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/model"
)

func validBootcamp() *model.Bootcamp {
	return &model.Bootcamp{
		Listing: model.Listing{
			Name:        "Devworks Bootcamp",
			Description: "Full stack web development",
			Website:     "https://devworks.com",
			Phone:       "(111) 111-1111",
			Email:       "enroll@devworks.com",
		},
		Address: "233 Bay State Rd Boston MA 02215",
		Careers: []string{"Web Development", "UI/UX", "Business"},
	}
}

func TestStruct_Bootcamp(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(b *model.Bootcamp)
		wantMsg string
	}{
		{name: "valid", mutate: func(b *model.Bootcamp) {}},
		{
			name:    "missing name",
			mutate:  func(b *model.Bootcamp) { b.Name = "" },
			wantMsg: "name is a required field",
		},
		{
			name:    "name too long",
			mutate:  func(b *model.Bootcamp) { b.Name = "0123456789012345678901234567890123456789012345678901" },
			wantMsg: "name must be a maximum of 50 characters in length",
		},
		{
			name:    "bad website",
			mutate:  func(b *model.Bootcamp) { b.Website = "ftp://devworks" },
			wantMsg: "website must be a valid URL with HTTP or HTTPS",
		},
		{
			name:    "bad email",
			mutate:  func(b *model.Bootcamp) { b.Email = "not-an-email" },
			wantMsg: "email must be a valid email",
		},
		{
			name:    "unknown career",
			mutate:  func(b *model.Bootcamp) { b.Careers = []string{"Cooking"} },
			wantMsg: "must be one of",
		},
		{
			name:    "no careers",
			mutate:  func(b *model.Bootcamp) { b.Careers = nil },
			wantMsg: "careers is a required field",
		},
		{
			name:    "rating out of range",
			mutate:  func(b *model.Bootcamp) { b.AverageRating = 11 },
			wantMsg: "averageRating must be 10 or less",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBootcamp()
			tt.mutate(b)

			err := v.Struct(b)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestStruct_CourseCareersExcludeWebDevelopment(t *testing.T) {
	v := New()
	c := &model.Course{
		Listing:    model.Listing{Name: "Front End", Description: "HTML and CSS"},
		Careers:    []string{"Web Development"},
		CourseType: model.CourseTypeFree,
		User:       "owner",
	}

	assert.Error(t, v.Struct(c))

	c.Careers = []string{"Frontend Development"}
	assert.NoError(t, v.Struct(c))

	c.CourseType = "Gold"
	assert.Error(t, v.Struct(c))
}

func TestStruct_UserEmailOptional(t *testing.T) {
	v := New()
	u := &model.User{UserName: "a", Password: "hash", Role: model.RoleUser}
	assert.NoError(t, v.Struct(u))

	bad := "nope"
	u.Email = &bad
	assert.Error(t, v.Struct(u))

	u.Email = nil
	u.Role = "root"
	assert.Error(t, v.Struct(u))
}
