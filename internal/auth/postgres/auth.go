package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/auth"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

var _ auth.RepositoryAPI = (*Repository)(nil)

func (r *Repository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) first(ctx context.Context, cond string, arg interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// CreateUser inserts the employee first so the user row can point at it.
func (r *Repository) CreateUser(ctx context.Context, u *userDatamodel.User, emp *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if emp != nil {
			var count int64
			if err := tx.Model(&employeeDatamodel.Employee{}).
				Where("LOWER(email) = ?", strings.ToLower(emp.Email)).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return internal.ErrEmailTaken
			}
			if err := tx.Create(emp).Error; err != nil {
				return err
			}
			u.EmployeeID = &emp.ID
		}
		return tx.Create(u).Error
	})
}

// DeleteByEmployeeID is a no-op when the employee never had an account.
func (r *Repository) DeleteByEmployeeID(ctx context.Context, employeeID int64) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&userDatamodel.User{}).Error
}
