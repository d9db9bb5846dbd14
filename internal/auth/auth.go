package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
	userDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeBearer = "bearer"

// UserResponse is the public view of an account; the password hash never leaves the service.
type UserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employee_id"`
	IsActive   bool   `json:"is_active"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func ToUserResponse(u *userDatamodel.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		EmployeeID: u.EmployeeID,
		IsActive:   u.IsActive,
	}
}

// TokenGenerator creates and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(u UserResponse) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// AuthService performs authentication-related business logic.
type AuthService interface {
	Authenticate(ctx context.Context, dto LoginDTO) (LoginResponse, error)
	Register(ctx context.Context, dto RegisterDTO) (UserResponse, error)
	Principal(ctx context.Context, tokenString string) (internal.Principal, error)
}

// Claims carries the username in "sub" next to the role and account links.
type Claims struct {
	UserID     int64  `json:"uid"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
	now            func() time.Time
}

// NewJWTTokenGenerator signs HS256 tokens with a single secret.
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: ttl,
		now:            time.Now,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(u UserResponse) (string, error) {
	now := j.now()
	claims := &Claims{
		UserID:     u.ID,
		Role:       u.Role,
		EmployeeID: u.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired.WithCause(err)
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}
	if !token.Valid || claims.Subject == "" || claims.UserID <= 0 {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
