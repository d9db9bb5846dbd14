package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/performance-tracker/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// Initial workload recorded for employees who sign themselves up.
const (
	registeredSatisfaction = 0.7
	registeredEvaluation   = 0.7
	registeredWorkHours    = 40
)

type RepositoryAPI interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	// CreateUser stores the user and, when emp is set, the linked employee in one transaction.
	CreateUser(ctx context.Context, u *userDatamodel.User, emp *employeeDatamodel.Employee) error
	DeleteByEmployeeID(ctx context.Context, employeeID int64) error
}

type Options struct {
	BCryptCost      int
	DefaultPassword string
}

// Service is the main auth service with dependencies
type Service struct {
	repo            RepositoryAPI
	tokenGenerator  TokenGenerator
	bcryptCost      int
	defaultPassword string
	logger          *slog.Logger
	now             func() time.Time
}

func NewService(repo RepositoryAPI, tokenGen TokenGenerator, opts Options, logger *slog.Logger) *Service {
	cost := opts.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		repo:            repo,
		tokenGenerator:  tokenGen,
		bcryptCost:      cost,
		defaultPassword: opts.DefaultPassword,
		logger:          logger,
		now:             time.Now,
	}
}

// Authenticate checks the password before the active flag, so an inactive account
// is only revealed to someone who knows its password.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return LoginResponse{}, err
	}

	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(dto.Username))
	if err != nil {
		if internal.IsNotFound(err) {
			return LoginResponse{}, internal.ErrInvalidCredentials
		}
		return LoginResponse{}, internal.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected", "username", u.Username)
		return LoginResponse{}, internal.ErrInvalidCredentials
	}

	if !u.IsActive {
		return LoginResponse{}, internal.ErrUserInactive
	}

	view := ToUserResponse(u)
	token, err := s.tokenGenerator.GenerateAccessToken(view)
	if err != nil {
		return LoginResponse{}, internal.NewInternalError("failed to sign token", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return LoginResponse{AccessToken: token, TokenType: TokenTypeBearer, User: view}, nil
}

// Register creates an account; the employee role also creates its employee record.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (UserResponse, error) {
	dto = dto.normalized()
	if err := dto.Validate(); err != nil {
		return UserResponse{}, err
	}

	if err := s.ensureAvailable(ctx, dto.Username, dto.Email); err != nil {
		return UserResponse{}, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return UserResponse{}, internal.NewInternalError("failed to hash password", err)
	}

	now := s.now()
	u := &userDatamodel.User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		IsActive:     true,
		CreatedAt:    now,
	}

	var emp *employeeDatamodel.Employee
	if dto.Role == internal.RoleEmployee {
		satisfaction, evaluation := registeredSatisfaction, registeredEvaluation
		emp = &employeeDatamodel.Employee{
			Name:                dto.Name,
			Email:               dto.Email,
			Department:          dto.Department,
			Age:                 dto.Age,
			Experience:          dto.Experience,
			Salary:              dto.Salary,
			SatisfactionLevel:   &satisfaction,
			LastEvaluationScore: &evaluation,
			WorkHours:           registeredWorkHours,
			AttritionPrediction: "N",
			IsActive:            true,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
	}

	if err := s.repo.CreateUser(ctx, u, emp); err != nil {
		if internal.IsValidation(err) {
			return UserResponse{}, err
		}
		s.logger.Error("failed to register user", "error", err, "username", dto.Username)
		return UserResponse{}, internal.NewInternalError("failed to register user", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return ToUserResponse(u), nil
}

// Principal resolves a bearer token against the current state of the account.
func (s *Service) Principal(ctx context.Context, tokenString string) (internal.Principal, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return internal.Principal{}, err
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if internal.IsNotFound(err) {
			return internal.Principal{}, internal.ErrInvalidToken
		}
		return internal.Principal{}, internal.NewInternalError("failed to load user", err)
	}
	if u.Username != claims.Subject {
		return internal.Principal{}, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return internal.Principal{}, internal.ErrUserInactive
	}

	return internal.Principal{
		UserID:     u.ID,
		Username:   u.Username,
		Role:       u.Role,
		EmployeeID: u.EmployeeID,
	}, nil
}

// ProvisionEmployeeAccount gives a newly hired employee a login. The username is the
// local part of the email, suffixed with the employee id when already in use.
func (s *Service) ProvisionEmployeeAccount(ctx context.Context, employeeID int64, email string) error {
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return internal.NewValidationFieldError("email", "cannot derive username from "+email, internal.ErrCodeInvalidEmail)
	}

	username := local
	taken, err := s.repo.UsernameTaken(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		username = fmt.Sprintf("%s%d", local, employeeID)
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return err
	}

	hash, err := s.HashPassword(s.defaultPassword)
	if err != nil {
		return err
	}

	u := &userDatamodel.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         internal.RoleEmployee,
		EmployeeID:   &employeeID,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateUser(ctx, u, nil); err != nil {
		return err
	}

	s.logger.Info("employee account provisioned", "employee_id", employeeID, "username", username)
	return nil
}

func (s *Service) RemoveEmployeeAccount(ctx context.Context, employeeID int64) error {
	if err := s.repo.DeleteByEmployeeID(ctx, employeeID); err != nil {
		return err
	}
	s.logger.Info("employee account removed", "employee_id", employeeID)
	return nil
}

// Subscribe wires account provisioning to the employee lifecycle events.
func (s *Service) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EmployeeCreated, func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.EmployeeCreatedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload %T", event)
		}
		return s.ProvisionEmployeeAccount(ctx, e.EmployeeID, e.Email)
	})
	bus.Subscribe(events.EmployeeDeleted, func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.EmployeeDeletedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload %T", event)
		}
		return s.RemoveEmployeeAccount(ctx, e.EmployeeID)
	})
}

func (s *Service) ensureAvailable(ctx context.Context, username, email string) error {
	taken, err := s.repo.UsernameTaken(ctx, username)
	if err != nil {
		return internal.NewInternalError("failed to check username", err)
	}
	if taken {
		return internal.ErrUsernameTaken
	}

	taken, err = s.repo.EmailTaken(ctx, email)
	if err != nil {
		return internal.NewInternalError("failed to check email", err)
	}
	if taken {
		return internal.ErrEmailTaken
	}
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
