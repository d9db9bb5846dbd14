package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/analytics"
	"github.com/frahmantamala/performance-tracker/internal/auth"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/frahmantamala/performance-tracker/internal/prediction"
	"github.com/frahmantamala/performance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Router Suite")
}

type stubAuth struct {
	principals map[string]internal.Principal
}

func (s *stubAuth) Authenticate(ctx context.Context, dto auth.LoginDTO) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, internal.ErrInvalidCredentials
}

func (s *stubAuth) Register(ctx context.Context, dto auth.RegisterDTO) (auth.UserResponse, error) {
	return auth.UserResponse{}, nil
}

func (s *stubAuth) Principal(ctx context.Context, token string) (internal.Principal, error) {
	p, ok := s.principals[token]
	if !ok {
		return internal.Principal{}, internal.ErrInvalidToken
	}
	return p, nil
}

type stubEmployees struct{}

func (stubEmployees) Create(ctx context.Context, dto employee.CreateEmployeeDTO) (*employee.Employee, error) {
	return &employee.Employee{ID: 1}, nil
}

func (stubEmployees) Get(ctx context.Context, id int64, caller internal.Principal) (*employee.Employee, error) {
	if !caller.CanAccessEmployee(id) {
		return nil, internal.ErrNotOwner
	}
	return &employee.Employee{ID: id}, nil
}

func (stubEmployees) List(ctx context.Context, params employee.ListParams) ([]employee.Employee, error) {
	return []employee.Employee{}, nil
}

func (stubEmployees) Update(ctx context.Context, id int64, dto employee.UpdateEmployeeDTO) (*employee.Employee, error) {
	return &employee.Employee{ID: id}, nil
}

func (stubEmployees) Delete(ctx context.Context, id int64) error { return nil }

func (stubEmployees) DashboardStats(ctx context.Context) (analytics.Snapshot, error) {
	return analytics.Snapshot{}, nil
}

type stubPredictions struct{}

func (stubPredictions) PredictEmployee(ctx context.Context, id int64) (prediction.Response, error) {
	return prediction.Response{EmployeeID: id}, nil
}

func (stubPredictions) PredictBatch(ctx context.Context) (prediction.BatchResponse, error) {
	return prediction.BatchResponse{}, nil
}

var _ = Describe("RegisterAllRoutes", func() {
	var (
		router   *chi.Mux
		dbHealth error
	)

	ownEmployee := int64(7)

	BeforeEach(func() {
		dbHealth = nil
		router = chi.NewRouter()
		RegisterAllRoutes(router, Handlers{
			Auth: auth.NewHandler(&stubAuth{principals: map[string]internal.Principal{
				"admin":    {UserID: 1, Username: "root", Role: internal.RoleAdmin},
				"employee": {UserID: 2, Username: "dana", Role: internal.RoleEmployee, EmployeeID: &ownEmployee},
			}}),
			Employee:   employee.NewHandler(stubEmployees{}),
			Prediction: prediction.NewHandler(stubPredictions{}),
			Health: NewHealthHandler(map[string]Pinger{
				"postgres": PingerFunc(func(ctx context.Context) error { return dbHealth }),
			}),
			OpenAPISpec: []byte("openapi: 3.0.3\n"),
		}, RouterOptions{AllowedOrigins: "*"}, logger.Discard())
	})

	serve := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("reports health per component", func() {
		Expect(serve(http.MethodGet, "/api/v1/health", "").Code).To(Equal(http.StatusOK))

		dbHealth = errors.New("connection refused")
		rec := serve(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring("connection refused"))
	})

	It("serves the OpenAPI document and a trace id", func() {
		rec := serve(http.MethodGet, "/openapi.yml", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("openapi"))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("rejects protected routes without a token", func() {
		rec := serve(http.MethodGet, "/api/v1/employees", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring("INVALID_TOKEN"))
	})

	DescribeTable("role and ownership gates",
		func(method, path, token string, want int) {
			Expect(serve(method, path, token).Code).To(Equal(want))
		},
		Entry("employee lists employees", http.MethodGet, "/api/v1/employees", "employee", http.StatusOK),
		Entry("employee reads own record", http.MethodGet, "/api/v1/employees/7", "employee", http.StatusOK),
		Entry("employee reads another record", http.MethodGet, "/api/v1/employees/8", "employee", http.StatusForbidden),
		Entry("employee deletes", http.MethodDelete, "/api/v1/employees/7", "employee", http.StatusForbidden),
		Entry("admin deletes", http.MethodDelete, "/api/v1/employees/7", "admin", http.StatusNoContent),
		Entry("employee opens dashboard", http.MethodGet, "/api/v1/employees/stats/dashboard", "employee", http.StatusForbidden),
		Entry("admin opens dashboard", http.MethodGet, "/api/v1/employees/stats/dashboard", "admin", http.StatusOK),
		Entry("employee predicts self", http.MethodPost, "/api/v1/predictions/employee/7", "employee", http.StatusOK),
		Entry("employee predicts another", http.MethodPost, "/api/v1/predictions/employee/8", "employee", http.StatusForbidden),
		Entry("employee runs batch", http.MethodPost, "/api/v1/predictions/batch", "employee", http.StatusForbidden),
		Entry("admin runs batch", http.MethodPost, "/api/v1/predictions/batch", "admin", http.StatusOK),
		Entry("unknown token", http.MethodGet, "/api/v1/employees", "forged", http.StatusUnauthorized),
	)
})
