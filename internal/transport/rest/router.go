package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/performance-tracker/internal/auth"
	"github.com/frahmantamala/performance-tracker/internal/department"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/frahmantamala/performance-tracker/internal/feedback"
	"github.com/frahmantamala/performance-tracker/internal/prediction"
	"github.com/frahmantamala/performance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/performance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/performance-tracker/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups everything RegisterAllRoutes mounts. Nil handlers leave their routes out.
type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Employee    *employee.Handler
	Prediction  *prediction.Handler
	Feedback    *feedback.Handler
	Department  *department.Handler
	Health      *HealthHandler
	OpenAPISpec []byte
}

type RouterOptions struct {
	AllowedOrigins string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	rbac := auth.NewRBACAuthorization(logger)
	ownership := auth.NewOwnershipPolicy(logger)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeHealthJSON(w, http.StatusOK, map[string]string{"message": "Employee Performance & Attrition API"})
	})

	if h.OpenAPISpec != nil {
		router.Get(swagger.SpecPath, swagger.SpecHandler(h.OpenAPISpec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Check)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/register", h.Auth.Register)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Department != nil {
				pr.Get("/departments", h.Department.GetDepartments)
			}

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/", h.Employee.ListEmployees)
					// ownership is enforced by the service so the 404/403 order stays stable
					er.Get("/{id}", h.Employee.GetEmployee)

					er.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireAdmin())
						ar.Post("/", h.Employee.CreateEmployee)
						ar.Put("/{id}", h.Employee.UpdateEmployee)
						ar.Delete("/{id}", h.Employee.DeleteEmployee)
						ar.Get("/stats/dashboard", h.Employee.DashboardStats)
					})
				})
			}

			if h.Prediction != nil {
				pr.Route("/predictions", func(prr chi.Router) {
					prr.With(ownership.RequireEmployeeAccess("id")).Post("/employee/{id}", h.Prediction.PredictEmployee)
					prr.With(rbac.RequireAdmin()).Post("/batch", h.Prediction.PredictBatch)
				})
			}

			if h.Feedback != nil {
				pr.Route("/feedback", func(fr chi.Router) {
					fr.With(rbac.RequireAdmin()).Post("/", h.Feedback.CreateFeedback)
					fr.Get("/{id}", h.Feedback.GetFeedback)
					fr.Get("/employee/{employeeID}", h.Feedback.ListEmployeeFeedback)
				})
			}
		})
	})
}
