package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/performance-tracker/internal"
	feedbackDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/feedback"
	"github.com/frahmantamala/performance-tracker/internal/feedback"
	"gorm.io/gorm"
)

// FeedbackRepository implements feedback.Repository using GORM
type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

var _ feedback.Repository = (*FeedbackRepository)(nil)

func (r *FeedbackRepository) Create(ctx context.Context, m *feedbackDatamodel.Feedback) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*feedbackDatamodel.Feedback, error) {
	var row feedbackDatamodel.Feedback
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrFeedbackNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ListByEmployee breaks date ties on id so entries from the same instant stay stable.
func (r *FeedbackRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*feedbackDatamodel.Feedback, error) {
	var rows []*feedbackDatamodel.Feedback
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("feedback_date DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}
