package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/performance-tracker/internal/prediction"
)

type PredictionsAPI struct {
	c *Client
}

func (a *PredictionsAPI) PredictOne(ctx context.Context, employeeID int64) (prediction.Response, error) {
	var out prediction.Response
	err := a.c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/predictions/employee/%d", employeeID)}, &out)
	return out, err
}

func (a *PredictionsAPI) PredictBatch(ctx context.Context) (prediction.BatchResponse, error) {
	var out prediction.BatchResponse
	err := a.c.do(ctx, request{method: http.MethodPost, path: "/predictions/batch"}, &out)
	return out, err
}
