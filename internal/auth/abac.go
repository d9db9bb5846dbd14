package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/transport"
)

// OwnershipPolicy is the attribute check for per-employee resources: admins pass,
// everybody else only reaches the employee record linked to their account.
type OwnershipPolicy struct {
	*transport.BaseHandler
}

func NewOwnershipPolicy(logger *slog.Logger) *OwnershipPolicy {
	return &OwnershipPolicy{BaseHandler: transport.NewBaseHandler(logger)}
}

func (p *OwnershipPolicy) Allow(caller internal.Principal, employeeID int64) bool {
	return caller.CanAccessEmployee(employeeID)
}

// RequireEmployeeAccess reads the employee id from the named path parameter.
func (p *OwnershipPolicy) RequireEmployeeAccess(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := p.RequirePrincipal(w, r)
			if !ok {
				return
			}

			id, err := p.IDParam(r, param)
			if err != nil {
				p.HandleServiceError(w, err)
				return
			}

			if !p.Allow(caller, id) {
				p.Logger.WarnContext(r.Context(), "access denied: not the owner",
					"user_id", caller.UserID,
					"employee_id", id)
				p.HandleServiceError(w, internal.ErrNotOwner)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
