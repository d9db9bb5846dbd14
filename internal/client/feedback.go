package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/performance-tracker/internal/department"
	"github.com/frahmantamala/performance-tracker/internal/feedback"
)

type FeedbackAPI struct {
	c *Client
}

func (a *FeedbackAPI) Create(ctx context.Context, employeeID int64, rating float64, comments string) (feedback.Feedback, error) {
	dto := feedback.CreateFeedbackDTO{EmployeeID: employeeID, Rating: rating, Comments: comments}
	if err := dto.Validate(); err != nil {
		return feedback.Feedback{}, err
	}

	var out feedback.Feedback
	err := a.c.do(ctx, request{method: http.MethodPost, path: "/feedback", body: dto}, &out)
	return out, err
}

func (a *FeedbackAPI) ListByEmployee(ctx context.Context, employeeID int64) ([]feedback.Feedback, error) {
	var out []feedback.Feedback
	err := a.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/feedback/employee/%d", employeeID)}, &out)
	return out, err
}

type DepartmentsAPI struct {
	c *Client
}

func (a *DepartmentsAPI) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	var out department.DepartmentsResponse
	err := a.c.do(ctx, request{method: http.MethodGet, path: "/departments"}, &out)
	return out.Departments, err
}
