package auth

import (
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if err := validation.ValidateCredentials(d.Username, d.Password); err != nil {
		return err
	}
	return nil
}

// RegisterDTO creates an account. The employee fields are only read for the employee role.
type RegisterDTO struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Name       string  `json:"name,omitempty"`
	Department string  `json:"department,omitempty"`
	Age        int     `json:"age,omitempty"`
	Experience int     `json:"experience,omitempty"`
	Salary     float64 `json:"salary,omitempty"`
}

var roles = []string{internal.RoleAdmin, internal.RoleEmployee}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(50)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("role", d.Role).Required().OneOf(roles, internal.ErrCodeInvalidRole)

	if d.Role == internal.RoleEmployee {
		v.Field("name", d.Name).Required().MaxLength(100)
		v.Field("department", d.Department).Required().OneOf(validation.Departments, internal.ErrCodeInvalidDepartment)
		v.Field("age", d.Age).IntRange(validation.MinAge, validation.MaxAge, internal.ErrCodeInvalidAge)
		v.Field("experience", d.Experience).IntRange(0, validation.MaxExperience, internal.ErrCodeInvalidExperience)
		v.Field("salary", d.Salary).Positive(internal.ErrCodeInvalidSalary)
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d RegisterDTO) normalized() RegisterDTO {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)
	d.Name = strings.TrimSpace(d.Name)
	return d
}
