package client

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/performance-tracker/internal/auth"
	"github.com/frahmantamala/performance-tracker/internal/session"
	"github.com/frahmantamala/performance-tracker/internal/user"
)

type AuthAPI struct {
	c *Client
}

var _ session.Authenticator = (*AuthAPI)(nil)

func (a *AuthAPI) Login(ctx context.Context, username, password string) (auth.LoginResponse, error) {
	dto := auth.LoginDTO{Username: username, Password: password}
	if err := dto.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	var resp auth.LoginResponse
	err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: dto, anonymous: true}, &resp)
	return resp, err
}

func (a *AuthAPI) Register(ctx context.Context, dto auth.RegisterDTO) (auth.UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return auth.UserResponse{}, err
	}

	var resp auth.UserResponse
	err := a.c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: dto, anonymous: true}, &resp)
	return resp, err
}

func (a *AuthAPI) Me(ctx context.Context) (user.User, error) {
	var u user.User
	err := a.c.do(ctx, request{method: http.MethodGet, path: "/users/me"}, &u)
	return u, err
}

// Authenticate adapts Login to the session store.
func (a *AuthAPI) Authenticate(ctx context.Context, username, password string) (session.Credentials, error) {
	resp, err := a.Login(ctx, username, password)
	if err != nil {
		return session.Credentials{}, err
	}
	return session.Credentials{Token: resp.AccessToken, Identity: identityOf(resp.User)}, nil
}

func (a *AuthAPI) RegisterAccount(ctx context.Context, account session.Account) (session.Identity, error) {
	resp, err := a.Register(ctx, auth.RegisterDTO{
		Username:   account.Username,
		Email:      account.Email,
		Password:   account.Password,
		Role:       account.Role,
		Name:       account.Name,
		Department: account.Department,
		Age:        account.Age,
		Experience: account.Experience,
		Salary:     account.Salary,
	})
	if err != nil {
		return session.Identity{}, err
	}
	return identityOf(resp), nil
}

func identityOf(u auth.UserResponse) session.Identity {
	return session.Identity{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		EmployeeID: u.EmployeeID,
		IsActive:   u.IsActive,
	}
}

// HealthCheck reports whether the server answers at all.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}
