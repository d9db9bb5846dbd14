package feedback

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	feedbackDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/feedback"
)

// Repository interface defines the data access methods for feedback
type Repository interface {
	Create(ctx context.Context, m *feedbackDatamodel.Feedback) error
	GetByID(ctx context.Context, id int64) (*feedbackDatamodel.Feedback, error)
	// ListByEmployee returns the newest entries first.
	ListByEmployee(ctx context.Context, employeeID int64) ([]*feedbackDatamodel.Feedback, error)
}

// EmployeeFinder is the slice of the employee repository feedback needs.
type EmployeeFinder interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
}

type Service struct {
	repo      Repository
	employees EmployeeFinder
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, employees EmployeeFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		logger:    logger,
		now:       time.Now,
	}
}

// Create records feedback written by the caller about an existing employee.
func (s *Service) Create(ctx context.Context, dto CreateFeedbackDTO, author internal.Principal) (*Feedback, error) {
	dto = dto.normalized()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.employees.GetByID(ctx, dto.EmployeeID); err != nil {
		return nil, err
	}

	createdBy := author.UserID
	row := ToDataModel(Feedback{
		EmployeeID:   dto.EmployeeID,
		Comments:     dto.Comments,
		Rating:       dto.Rating,
		FeedbackDate: s.now(),
		CreatedBy:    &createdBy,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create feedback", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewInternalError("failed to create feedback", err)
	}

	s.logger.Info("feedback recorded", "feedback_id", row.ID, "employee_id", row.EmployeeID, "rating", row.Rating)
	f := FromDataModel(row)
	return &f, nil
}

func (s *Service) Get(ctx context.Context, id int64, caller internal.Principal) (*Feedback, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessEmployee(row.EmployeeID) {
		return nil, internal.ErrNotOwner
	}
	f := FromDataModel(row)
	return &f, nil
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID int64, caller internal.Principal) ([]Feedback, error) {
	if !caller.CanAccessEmployee(employeeID) {
		s.logger.Warn("feedback access denied", "employee_id", employeeID, "user_id", caller.UserID)
		return nil, internal.ErrNotOwner
	}

	rows, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list feedback", err)
	}
	return FromDataModels(rows), nil
}
