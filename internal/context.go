package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID     int64
	Username   string
	Role       string
	EmployeeID *int64
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccessEmployee reports whether the caller may read the given employee's data.
func (p Principal) CanAccessEmployee(employeeID int64) bool {
	if p.IsAdmin() {
		return true
	}
	return p.EmployeeID != nil && *p.EmployeeID == employeeID
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
