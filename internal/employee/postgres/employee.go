package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/frahmantamala/performance-tracker/internal/query"
	"gorm.io/gorm"
)

// EmployeeRepository implements employee.RepositoryAPI using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ employee.RepositoryAPI = (*EmployeeRepository)(nil)

// List pushes the shared filter down to SQL. Rows come back in id order.
func (r *EmployeeRepository) List(ctx context.Context, filter query.Filter, skip, limit int) ([]*employeeDatamodel.Employee, error) {
	q := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{})

	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')", pattern, pattern)
	}

	var rows []*employeeDatamodel.Employee
	err := q.Order("id ASC").Offset(skip).Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) ListActive(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&rows).Error
	return rows, err
}

// GetByID retrieves an employee by its ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, m *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Update writes every column, including nulls and false.
func (r *EmployeeRepository) Update(ctx context.Context, m *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&employeeDatamodel.Employee{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

// SavePrediction stores the model outputs on the employee row.
func (r *EmployeeRepository) SavePrediction(ctx context.Context, id int64, attrition string, probability, performance float64) error {
	res := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attrition_prediction":   attrition,
			"attrition_probability":  probability,
			"performance_prediction": performance,
			"performance_score":      performance,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrEmployeeNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
