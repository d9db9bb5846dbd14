package postgres

import (
	"context"
	"errors"

	departmentDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/department"
	"github.com/frahmantamala/performance-tracker/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) ListActiveWithHeadcount(ctx context.Context) ([]departmentDatamodel.Headcount, error) {
	var rows []departmentDatamodel.Headcount
	err := r.db.WithContext(ctx).
		Table("departments AS d").
		Select("d.name, d.description, COUNT(e.id) AS active_employees").
		Joins("LEFT JOIN employees AS e ON e.department = d.name AND e.is_active = ?", true).
		Where("d.is_active = ?", true).
		Group("d.id, d.name, d.description").
		Order("d.name ASC").
		Scan(&rows).Error
	return rows, err
}

// GetByName returns nil without error when the department does not exist.
func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}
