package validation

import (
	errors "github.com/frahmantamala/performance-tracker/internal"
)

// Departments is the closed set of organizational units.
var Departments = []string{"IT", "Sales", "Marketing", "HR", "Finance", "Operations", "Support"}

const (
	MinAge        = 18
	MaxAge        = 70
	MaxExperience = 50
	MaxWorkHours  = 80
	MaxRating     = 5.0
	RatingStep    = 0.5
)

func IsDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

func ValidateRating(rating float64) *errors.AppError {
	v := NewValidator()
	v.Field("rating", rating).
		FloatRange(0, MaxRating, errors.ErrCodeInvalidRating).
		Step(RatingStep, errors.ErrCodeInvalidRating)
	return v.Validate()
}

func ValidateCredentials(username, password string) *errors.AppError {
	v := NewValidator()
	v.Field("username", username).Required()
	v.Field("password", password).Required()
	return v.Validate()
}
