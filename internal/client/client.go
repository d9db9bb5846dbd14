// Package client talks to the performance tracker REST API on behalf of the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/performance-tracker/internal"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the bearer token and is told when the server rejects it.
type TokenSource interface {
	AccessToken() (string, bool)
	Invalidate()
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger

	Auth        *AuthAPI
	Employees   *EmployeesAPI
	Predictions *PredictionsAPI
	Feedback    *FeedbackAPI
	Departments *DepartmentsAPI
}

// New accepts the server root or the versioned API URL as BaseURL.
func New(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(strings.TrimRight(config.BaseURL, "/"), apiPrefix),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	c.Auth = &AuthAPI{c: c}
	c.Employees = &EmployeesAPI{c: c}
	c.Predictions = &PredictionsAPI{c: c}
	c.Feedback = &FeedbackAPI{c: c}
	c.Departments = &DepartmentsAPI{c: c}
	return c
}

// SetTokenSource is separate from New because the session store itself needs the
// client's AuthAPI before it can hand out tokens.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	// anonymous requests never carry a token and never invalidate one.
	anonymous bool
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	target := c.baseURL + apiPrefix + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.anonymous && c.tokens != nil {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return internal.NewNetworkError("could not reach the server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && !r.anonymous && c.tokens != nil {
			c.logger.Info("server rejected the session token, logging out")
			c.tokens.Invalidate()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return internal.NewNetworkError("unreadable server response", err)
	}
	return nil
}

// errorBody covers the envelopes the server and its proxies produce.
type errorBody struct {
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	message := http.StatusText(resp.StatusCode)
	code := internal.ErrorCode("HTTP_" + fmt.Sprint(resp.StatusCode))
	var details interface{}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Error != nil:
			message = body.Error.Message
			code = internal.ErrorCode(body.Error.Code)
			var fields internal.ValidationErrors
			if len(body.Error.Details) > 0 && json.Unmarshal(body.Error.Details, &fields) == nil && len(fields.Errors) > 0 {
				details = fields
			}
		case body.Message != "":
			message = body.Message
		case len(body.Detail) > 0:
			var text string
			if json.Unmarshal(body.Detail, &text) == nil {
				message = text
			}
		}
	}

	var appErr *internal.AppError
	switch {
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnprocessableEntity:
		appErr = internal.NewValidationError(message, code)
	case resp.StatusCode == http.StatusConflict:
		appErr = internal.NewConflictError(message, code)
	case resp.StatusCode == http.StatusUnauthorized:
		appErr = internal.NewUnauthorizedError(message, code)
	case resp.StatusCode == http.StatusForbidden:
		appErr = internal.NewForbiddenError(message, code)
	case resp.StatusCode == http.StatusNotFound:
		appErr = internal.NewNotFoundError(message, code)
	case resp.StatusCode >= http.StatusInternalServerError:
		appErr = internal.NewNetworkError(message, errors.New(resp.Status))
	default:
		appErr = internal.NewValidationError(message, code)
	}
	if details != nil {
		appErr = appErr.WithDetails(details)
	}
	return appErr
}
