package department

import (
	"time"

	departmentDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/department"
)

type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Catalog is the seeded set of departments with their descriptions.
var Catalog = []Department{
	{Name: "IT", Description: "Engineering, infrastructure and internal tools"},
	{Name: "Sales", Description: "Account executives and sales operations"},
	{Name: "Marketing", Description: "Brand, growth and communications"},
	{Name: "HR", Description: "People operations and recruiting"},
	{Name: "Finance", Description: "Accounting, payroll and planning"},
	{Name: "Operations", Description: "Facilities, logistics and vendor management"},
	{Name: "Support", Description: "Customer support and success"},
}

func (d *Department) ToResponse(activeEmployees int) DepartmentResponse {
	return DepartmentResponse{
		Name:            d.Name,
		Description:     d.Description,
		ActiveEmployees: activeEmployees,
	}
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
