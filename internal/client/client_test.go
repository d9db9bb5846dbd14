package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/auth"
	"github.com/frahmantamala/performance-tracker/internal/employee"
	"github.com/frahmantamala/performance-tracker/internal/query"
	"github.com/frahmantamala/performance-tracker/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token       string
	invalidated bool
}

func (s *staticTokens) AccessToken() (string, bool) {
	if s.invalidated || s.token == "" {
		return "", false
	}
	return s.token, true
}

func (s *staticTokens) Invalidate() { s.invalidated = true }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *staticTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL + "/api/v1/"}, logger.Discard())
	tokens := &staticTokens{token: "tok"}
	c.SetTokenSource(tokens)
	return c, tokens
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_SendsCredentialsWithoutToken(t *testing.T) {
	employeeID := int64(7)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body auth.LoginDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dana", body.Username)

		writeJSON(w, http.StatusOK, auth.LoginResponse{
			AccessToken: "jwt",
			TokenType:   auth.TokenTypeBearer,
			User:        auth.UserResponse{ID: 1, Username: "dana", Role: internal.RoleEmployee, EmployeeID: &employeeID, IsActive: true},
		})
	})

	creds, err := c.Auth.Authenticate(context.Background(), "dana", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "jwt", creds.Token)
	assert.Equal(t, "dana", creds.Identity.Username)
	require.NotNil(t, creds.Identity.EmployeeID)
	assert.Equal(t, int64(7), *creds.Identity.EmployeeID)
}

func TestLogin_RejectsBlankInputLocally(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.Auth.Login(context.Background(), "", "")

	assert.True(t, internal.IsValidation(err))
	assert.False(t, called, "invalid input must not reach the server")
}

func TestUnauthorized_InvalidatesToken(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, internal.Response{Error: internal.ErrTokenExpired})
	})

	_, err := c.Employees.Get(context.Background(), 3)

	assert.True(t, internal.IsAuth(err))
	assert.ErrorIs(t, err, internal.ErrTokenExpired)
	assert.True(t, tokens.invalidated)
}

func TestFailedLogin_KeepsTokenSource(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, internal.Response{Error: internal.ErrInvalidCredentials})
	})

	_, err := c.Auth.Login(context.Background(), "dana", "wrongpw")

	assert.ErrorIs(t, err, internal.ErrInvalidCredentials)
	assert.False(t, tokens.invalidated)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   interface{}
		check  func(error) bool
		msg    string
	}{
		{"forbidden envelope", http.StatusForbidden, internal.Response{Error: internal.ErrAdminRequired}, internal.IsAuth, "Not enough permissions"},
		{"not found envelope", http.StatusNotFound, internal.Response{Error: internal.ErrEmployeeNotFound}, internal.IsNotFound, "Employee not found"},
		{"flat message", http.StatusConflict, map[string]interface{}{"code": 409, "message": "duplicate"}, internal.IsValidation, "duplicate"},
		{"detail string", http.StatusUnprocessableEntity, map[string]string{"detail": "bad field"}, internal.IsValidation, "bad field"},
		{"server failure", http.StatusInternalServerError, map[string]interface{}{"code": 500, "message": "internal server error"}, internal.IsNetwork, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			err := c.Employees.Delete(context.Background(), 1)

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			appErr, ok := internal.IsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}
}

func TestValidationDetailsSurvive(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, internal.Response{
			Error: internal.NewValidationFieldError("limit", "limit must be between 1 and 1000", internal.ErrCodeInvalidPagination),
		})
	})

	_, err := c.Employees.List(context.Background(), employee.ListParams{Limit: 10})

	require.Error(t, err)
	assert.Equal(t, "limit must be between 1 and 1000", err.Error())
}

func TestUnreachableServer_IsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url}, logger.Discard())
	_, err := c.Departments.List(context.Background())

	assert.True(t, internal.IsNetwork(err))
}

func TestEmployeesList_EncodesFilter(t *testing.T) {
	active := true
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/v1/employees", r.URL.Path)
		assert.Equal(t, "ann", q.Get("search"))
		assert.Equal(t, "IT", q.Get("department"))
		assert.Equal(t, "true", q.Get("is_active"))
		assert.Equal(t, "20", q.Get("skip"))
		writeJSON(w, http.StatusOK, []employee.Employee{{ID: 1, Name: "Ann"}})
	})

	out, err := c.Employees.List(context.Background(), employee.ListParams{
		Filter: query.Filter{Search: "ann", Department: "IT", Active: &active},
		Skip:   20,
		Limit:  10,
	})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ann", out[0].Name)
}

func TestEmployeesAll_PagesUntilShortPage(t *testing.T) {
	var skips []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		skip := r.URL.Query().Get("skip")
		skips = append(skips, skip)
		if skip == "" {
			writeJSON(w, http.StatusOK, []employee.Employee{{ID: 1}, {ID: 2}})
			return
		}
		writeJSON(w, http.StatusOK, []employee.Employee{{ID: 3}})
	})

	out, err := c.Employees.All(context.Background(), employee.ListParams{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, []string{"", "2"}, skips)
}

func TestFeedbackCreate_ValidatesRating(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should have been rejected locally")
	})

	_, err := c.Feedback.Create(context.Background(), 1, 7, "great")

	assert.True(t, internal.IsValidation(err))
}

func TestPredictBatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/predictions/batch", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":       "Successfully updated predictions for 4 employees",
			"updated_count": 4,
		})
	})

	out, err := c.Predictions.PredictBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, out.UpdatedCount)
}
