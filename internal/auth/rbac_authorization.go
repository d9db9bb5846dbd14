package auth

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/transport"
)

// RBACAuthorization gates routes on the caller's role.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := ra.RequirePrincipal(w, r)
			if !ok {
				return
			}

			if !slices.Contains(roles, p.Role) {
				ra.Logger.WarnContext(r.Context(), "access denied: role not allowed",
					"user_id", p.UserID,
					"role", p.Role,
					"required_roles", roles)
				ra.HandleServiceError(w, internal.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleAdmin)
}
