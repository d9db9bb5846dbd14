package employee

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/performance-tracker/internal/query"
)

const (
	DefaultLimit = 100
	MaxLimit     = 10000
)

// CreateEmployeeDTO represents the request payload for hiring an employee
type CreateEmployeeDTO struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Department          string   `json:"department"`
	Age                 int      `json:"age"`
	Experience          int      `json:"experience"`
	Salary              float64  `json:"salary"`
	SatisfactionLevel   *float64 `json:"satisfaction_level,omitempty"`
	LastEvaluationScore *float64 `json:"last_evaluation_score,omitempty"`
	ProjectCount        *int     `json:"project_count,omitempty"`
	WorkHours           *int     `json:"work_hours,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("email", dto.Email).Required().Email()
	v.Field("department", dto.Department).Required().OneOf(validation.Departments, internal.ErrCodeInvalidDepartment)
	v.Field("age", dto.Age).IntRange(validation.MinAge, validation.MaxAge, internal.ErrCodeInvalidAge)
	v.Field("experience", dto.Experience).IntRange(0, validation.MaxExperience, internal.ErrCodeInvalidExperience)
	v.Field("salary", dto.Salary).Positive(internal.ErrCodeInvalidSalary)
	v.Field("satisfaction_level", dto.SatisfactionLevel).FloatRange(0, 1, internal.ErrCodeInvalidRatio)
	v.Field("last_evaluation_score", dto.LastEvaluationScore).FloatRange(0, 1, internal.ErrCodeInvalidRatio)
	v.Field("project_count", dto.ProjectCount).MinInt(0, internal.ErrCodeInvalidProjects)
	v.Field("work_hours", dto.WorkHours).IntRange(0, validation.MaxWorkHours, internal.ErrCodeInvalidWorkHours)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ToEmployee applies defaults for the optional workload fields.
func (dto CreateEmployeeDTO) ToEmployee() Employee {
	e := Employee{
		Name:                strings.TrimSpace(dto.Name),
		Email:               strings.TrimSpace(dto.Email),
		Department:          dto.Department,
		Age:                 dto.Age,
		Experience:          dto.Experience,
		Salary:              dto.Salary,
		SatisfactionLevel:   dto.SatisfactionLevel,
		LastEvaluationScore: dto.LastEvaluationScore,
		WorkHours:           DefaultWorkHours,
		AttritionPrediction: DefaultAttritionFlag,
		IsActive:            true,
	}
	if dto.ProjectCount != nil {
		e.ProjectCount = *dto.ProjectCount
	}
	if dto.WorkHours != nil {
		e.WorkHours = *dto.WorkHours
	}
	return e
}

// UpdateEmployeeDTO carries a partial update; nil fields are left alone.
type UpdateEmployeeDTO struct {
	Name                *string  `json:"name,omitempty"`
	Email               *string  `json:"email,omitempty"`
	Department          *string  `json:"department,omitempty"`
	Age                 *int     `json:"age,omitempty"`
	Experience          *int     `json:"experience,omitempty"`
	Salary              *float64 `json:"salary,omitempty"`
	SatisfactionLevel   *float64 `json:"satisfaction_level,omitempty"`
	LastEvaluationScore *float64 `json:"last_evaluation_score,omitempty"`
	ProjectCount        *int     `json:"project_count,omitempty"`
	WorkHours           *int     `json:"work_hours,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(100)
	}
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email()
	}
	if dto.Department != nil {
		v.Field("department", *dto.Department).OneOf(validation.Departments, internal.ErrCodeInvalidDepartment)
	}
	v.Field("age", dto.Age).IntRange(validation.MinAge, validation.MaxAge, internal.ErrCodeInvalidAge)
	v.Field("experience", dto.Experience).IntRange(0, validation.MaxExperience, internal.ErrCodeInvalidExperience)
	v.Field("salary", dto.Salary).Positive(internal.ErrCodeInvalidSalary)
	v.Field("satisfaction_level", dto.SatisfactionLevel).FloatRange(0, 1, internal.ErrCodeInvalidRatio)
	v.Field("last_evaluation_score", dto.LastEvaluationScore).FloatRange(0, 1, internal.ErrCodeInvalidRatio)
	v.Field("project_count", dto.ProjectCount).MinInt(0, internal.ErrCodeInvalidProjects)
	v.Field("work_hours", dto.WorkHours).IntRange(0, validation.MaxWorkHours, internal.ErrCodeInvalidWorkHours)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto UpdateEmployeeDTO) ApplyTo(e *Employee) {
	if dto.Name != nil {
		e.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Email != nil {
		e.Email = strings.TrimSpace(*dto.Email)
	}
	if dto.Department != nil {
		e.Department = *dto.Department
	}
	if dto.Age != nil {
		e.Age = *dto.Age
	}
	if dto.Experience != nil {
		e.Experience = *dto.Experience
	}
	if dto.Salary != nil {
		e.Salary = *dto.Salary
	}
	if dto.SatisfactionLevel != nil {
		e.SatisfactionLevel = dto.SatisfactionLevel
	}
	if dto.LastEvaluationScore != nil {
		e.LastEvaluationScore = dto.LastEvaluationScore
	}
	if dto.ProjectCount != nil {
		e.ProjectCount = *dto.ProjectCount
	}
	if dto.WorkHours != nil {
		e.WorkHours = *dto.WorkHours
	}
	if dto.IsActive != nil {
		e.IsActive = *dto.IsActive
	}
}

// ListParams is the server side of the list filter: offset paging plus the shared Filter.
type ListParams struct {
	Filter query.Filter
	Skip   int
	Limit  int
}

func ParseListParams(q url.Values) (ListParams, error) {
	p := ListParams{Limit: DefaultLimit}

	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, internal.NewValidationFieldError("skip", "skip must be an integer", internal.ErrCodeInvalidPagination)
		}
		p.Skip = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, internal.NewValidationFieldError("limit", "limit must be an integer", internal.ErrCodeInvalidPagination)
		}
		p.Limit = n
	}

	p.Filter.Search = strings.TrimSpace(q.Get("search"))
	p.Filter.Department = q.Get("department")
	if raw := q.Get("is_active"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return p, internal.NewValidationFieldError("is_active", "is_active must be true or false", internal.ErrCodeValidationFailed)
		}
		p.Filter.Active = &b
	}

	v := validation.NewValidator()
	v.Field("skip", p.Skip).MinInt(0, internal.ErrCodeInvalidPagination)
	v.Field("limit", p.Limit).IntRange(1, MaxLimit, internal.ErrCodeInvalidPagination)
	if err := v.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Values renders the params as a query string for the REST client.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Filter.Search != "" {
		q.Set("search", p.Filter.Search)
	}
	if p.Filter.Department != "" {
		q.Set("department", p.Filter.Department)
	}
	if p.Filter.Active != nil {
		q.Set("is_active", strconv.FormatBool(*p.Filter.Active))
	}
	return q
}
