package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/analytics"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	"github.com/frahmantamala/performance-tracker/internal/core/events"
	"github.com/frahmantamala/performance-tracker/internal/query"
)

// RepositoryAPI defines the data access methods for employees
type RepositoryAPI interface {
	List(ctx context.Context, filter query.Filter, skip, limit int) ([]*employeeDatamodel.Employee, error)
	ListActive(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, m *employeeDatamodel.Employee) error
	Update(ctx context.Context, m *employeeDatamodel.Employee) error
	Delete(ctx context.Context, id int64) error
}

// Service handles employee business logic
type Service struct {
	repo   RepositoryAPI
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new employee service
func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

// Create stores a new employee and asks for a login account to be provisioned.
// Provisioning failures are logged and do not undo the hire.
func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err)
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, dto.Email, 0)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if taken {
		return nil, internal.ErrEmailTaken
	}

	e := dto.ToEmployee()
	now := s.now()
	e.CreatedAt, e.UpdatedAt = now, now

	row := ToDataModel(e)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", e.Email)
		return nil, internal.NewInternalError("failed to create employee", err)
	}
	created := FromDataModel(row)

	if s.events != nil {
		if err := s.events.PublishSync(ctx, events.NewEmployeeCreatedEvent(created.ID, created.Email)); err != nil {
			s.logger.Warn("could not provision user account", "employee_id", created.ID, "error", err)
		}
	}

	s.logger.Info("employee created", "employee_id", created.ID, "department", created.Department)
	return &created, nil
}

// Get enforces that non-admins only see their own record. Ownership is checked
// before the lookup so a denied caller cannot tell which ids exist.
func (s *Service) Get(ctx context.Context, id int64, caller internal.Principal) (*Employee, error) {
	if !caller.CanAccessEmployee(id) {
		s.logger.Warn("employee access denied", "employee_id", id, "user_id", caller.UserID)
		return nil, internal.ErrNotOwner
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e := FromDataModel(row)
	return &e, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Employee, error) {
	rows, err := s.repo.List(ctx, params.Filter, params.Skip, params.Limit)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil && *dto.Email != row.Email {
		taken, err := s.repo.EmailTaken(ctx, *dto.Email, id)
		if err != nil {
			return nil, internal.NewInternalError("failed to check email", err)
		}
		if taken {
			return nil, internal.ErrEmailTaken
		}
	}

	e := FromDataModel(row)
	dto.ApplyTo(&e)
	e.UpdatedAt = s.now()

	updated := ToDataModel(e)
	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id)
	out := FromDataModel(updated)
	return &out, nil
}

// Delete removes the linked account first; the employee stays if that fails.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.PublishSync(ctx, events.NewEmployeeDeletedEvent(id)); err != nil {
			return internal.NewInternalError("failed to remove linked account", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

// DashboardStats summarizes active employees with the same buckets the dashboard uses.
func (s *Service) DashboardStats(ctx context.Context) (analytics.Snapshot, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return analytics.Snapshot{}, internal.NewInternalError("failed to load employees", err)
	}
	return analytics.Summarize(FromDataModels(rows)).Rounded(), nil
}
