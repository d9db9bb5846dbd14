package department

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/performance-tracker/internal"
	departmentDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	// ListActiveWithHeadcount returns active departments in name order.
	ListActiveWithHeadcount(ctx context.Context) ([]departmentDatamodel.Headcount, error)
	GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllDepartments(ctx context.Context) ([]DepartmentResponse, error) {
	rows, err := s.repo.ListActiveWithHeadcount(ctx)
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, internal.NewInternalError("failed to load departments", err)
	}

	responses := make([]DepartmentResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, DepartmentResponse{
			Name:            row.Name,
			Description:     row.Description,
			ActiveEmployees: row.ActiveEmployees,
		})
	}
	return responses, nil
}

// EnsureCatalog inserts any catalog department missing from storage.
func (s *Service) EnsureCatalog(ctx context.Context) (int, error) {
	created := 0
	for _, d := range Catalog {
		existing, err := s.repo.GetByName(ctx, d.Name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		d.IsActive = true
		if err := s.repo.Create(ctx, ToDataModel(&d)); err != nil {
			return created, err
		}
		created++
	}

	if created > 0 {
		s.logger.Info("department catalog seeded", "created", created)
	}
	return created, nil
}
