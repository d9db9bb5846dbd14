package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/user"
)

// User is the account profile returned by /users/me.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	EmployeeID *int64    `json:"employee_id"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromDataModel(m *userDatamodel.User) *User {
	return &User{
		ID:         m.ID,
		Username:   m.Username,
		Email:      m.Email,
		Role:       m.Role,
		EmployeeID: m.EmployeeID,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
	}
}
