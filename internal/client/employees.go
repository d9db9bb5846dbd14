package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/performance-tracker/internal/analytics"
	"github.com/frahmantamala/performance-tracker/internal/employee"
)

type EmployeesAPI struct {
	c *Client
}

func (a *EmployeesAPI) List(ctx context.Context, params employee.ListParams) ([]employee.Employee, error) {
	var out []employee.Employee
	err := a.c.do(ctx, request{method: http.MethodGet, path: "/employees", query: params.Values()}, &out)
	return out, err
}

func (a *EmployeesAPI) Get(ctx context.Context, id int64) (employee.Employee, error) {
	var out employee.Employee
	err := a.c.do(ctx, request{method: http.MethodGet, path: employeePath(id)}, &out)
	return out, err
}

func (a *EmployeesAPI) Create(ctx context.Context, dto employee.CreateEmployeeDTO) (employee.Employee, error) {
	if err := dto.Validate(); err != nil {
		return employee.Employee{}, err
	}
	var out employee.Employee
	err := a.c.do(ctx, request{method: http.MethodPost, path: "/employees", body: dto}, &out)
	return out, err
}

func (a *EmployeesAPI) Update(ctx context.Context, id int64, dto employee.UpdateEmployeeDTO) (employee.Employee, error) {
	if err := dto.Validate(); err != nil {
		return employee.Employee{}, err
	}
	var out employee.Employee
	err := a.c.do(ctx, request{method: http.MethodPut, path: employeePath(id), body: dto}, &out)
	return out, err
}

func (a *EmployeesAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, request{method: http.MethodDelete, path: employeePath(id)}, nil)
}

func (a *EmployeesAPI) Stats(ctx context.Context) (analytics.Snapshot, error) {
	var out analytics.Snapshot
	err := a.c.do(ctx, request{method: http.MethodGet, path: "/employees/stats/dashboard"}, &out)
	return out, err
}

// All pages through the list endpoint until a short page comes back.
func (a *EmployeesAPI) All(ctx context.Context, params employee.ListParams) ([]employee.Employee, error) {
	if params.Limit <= 0 {
		params.Limit = employee.DefaultLimit
	}
	var all []employee.Employee
	for {
		page, err := a.List(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < params.Limit {
			return all, nil
		}
		params.Skip += len(page)
	}
}

func employeePath(id int64) string {
	return fmt.Sprintf("/employees/%d", id)
}
