package employee

import (
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	core "github.com/frahmantamala/performance-tracker/internal/core/employee"
)

// Employee is the API representation of a staff record.
type Employee = core.Employee

const (
	DefaultWorkHours     = 40
	DefaultAttritionFlag = "N"
)

// FromDataModel maps a row to the shared record.
func FromDataModel(m *employeeDatamodel.Employee) Employee {
	return Employee{
		ID:                    m.ID,
		Name:                  m.Name,
		Email:                 m.Email,
		Department:            m.Department,
		Age:                   m.Age,
		Experience:            m.Experience,
		Salary:                m.Salary,
		SatisfactionLevel:     m.SatisfactionLevel,
		LastEvaluationScore:   m.LastEvaluationScore,
		ProjectCount:          m.ProjectCount,
		WorkHours:             m.WorkHours,
		PerformanceScore:      m.PerformanceScore,
		AttritionPrediction:   m.AttritionPrediction,
		AttritionProbability:  m.AttritionProbability,
		PerformancePrediction: m.PerformancePrediction,
		IsActive:              m.IsActive,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func ToDataModel(e Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:                    e.ID,
		Name:                  e.Name,
		Email:                 e.Email,
		Department:            e.Department,
		Age:                   e.Age,
		Experience:            e.Experience,
		Salary:                e.Salary,
		PerformanceScore:      e.PerformanceScore,
		SatisfactionLevel:     e.SatisfactionLevel,
		LastEvaluationScore:   e.LastEvaluationScore,
		ProjectCount:          e.ProjectCount,
		WorkHours:             e.WorkHours,
		AttritionPrediction:   e.AttritionPrediction,
		AttritionProbability:  e.AttritionProbability,
		PerformancePrediction: e.PerformancePrediction,
		IsActive:              e.IsActive,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

func FromDataModels(rows []*employeeDatamodel.Employee) []Employee {
	out := make([]Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}
