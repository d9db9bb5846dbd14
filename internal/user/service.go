package user

import (
	"context"
	"fmt"

	"github.com/frahmantamala/performance-tracker/internal"
	userDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/user"
)

type Service struct {
	repo Repository
}

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error)
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if internal.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return FromDataModel(u), nil
}
