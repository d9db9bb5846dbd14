package prediction

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/performance-tracker/internal"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
)

// EmployeeStore is the part of the employee repository predictions read and write.
type EmployeeStore interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	ListActive(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	SavePrediction(ctx context.Context, id int64, attrition string, probability, performance float64) error
}

type Service struct {
	employees EmployeeStore
	model     Model
	pool      *Pool
	logger    *slog.Logger
}

func NewService(employees EmployeeStore, model Model, pool *Pool, logger *slog.Logger) *Service {
	return &Service{
		employees: employees,
		model:     model,
		pool:      pool,
		logger:    logger,
	}
}

// PredictEmployee scores one employee and stores the outcome on their record.
func (s *Service) PredictEmployee(ctx context.Context, id int64) (Response, error) {
	e, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	return s.score(ctx, e)
}

func (s *Service) score(ctx context.Context, e *employeeDatamodel.Employee) (Response, error) {
	out, err := s.model.Predict(ctx, FeaturesOf(e))
	if err != nil {
		s.logger.Error("prediction failed", "employee_id", e.ID, "error", err)
		return Response{}, err
	}

	resp := responseOf(e.ID, out)
	if err := s.employees.SavePrediction(ctx, e.ID, resp.AttritionPrediction, resp.AttritionProbability, resp.PerformancePrediction); err != nil {
		if internal.IsNotFound(err) {
			return Response{}, err
		}
		return Response{}, internal.NewInternalError("failed to store prediction", err)
	}

	s.logger.Info("prediction stored",
		"employee_id", e.ID,
		"attrition_probability", resp.AttritionProbability,
		"risk_level", resp.RiskLevel.String())
	return resp, nil
}

// PredictBatch scores every active employee on the worker pool. Individual failures
// are logged and left out of the count; the batch only fails when nothing was updated.
func (s *Service) PredictBatch(ctx context.Context) (BatchResponse, error) {
	rows, err := s.employees.ListActive(ctx)
	if err != nil {
		return BatchResponse{}, internal.NewInternalError("failed to load employees", err)
	}
	if len(rows) == 0 {
		return newBatchResponse(0), nil
	}

	done := make(chan JobResult, len(rows))
	submitted := 0
	for _, row := range rows {
		e := row
		job := Job{
			EmployeeID: e.ID,
			Done:       done,
			Run: func(poolCtx context.Context) error {
				jobCtx, cancel := mergeCancel(ctx, poolCtx)
				defer cancel()
				_, err := s.score(jobCtx, e)
				return err
			},
		}
		if err := s.pool.Submit(ctx, job); err != nil {
			s.logger.Warn("batch prediction stopped early", "submitted", submitted, "error", err)
			break
		}
		submitted++
	}

	updated := 0
	var errs []error
	for received := 0; received < submitted; received++ {
		select {
		case r := <-done:
			if r.Err != nil {
				errs = append(errs, r.Err)
				continue
			}
			updated++
		case <-ctx.Done():
			return BatchResponse{}, ctx.Err()
		case <-s.pool.Closed():
			return BatchResponse{}, internal.ErrPredictionFailed.WithCause(ErrPoolClosed)
		}
	}

	if updated == 0 {
		errs = append(errs, errors.New("no employee could be scored"))
		return BatchResponse{}, internal.ErrPredictionFailed.WithCause(errors.Join(errs...))
	}
	if len(errs) > 0 {
		s.logger.Warn("batch prediction finished with failures", "updated", updated, "failed", len(errs))
	}

	s.logger.Info("batch prediction complete", "updated", updated, "active", len(rows))
	return newBatchResponse(updated), nil
}

// mergeCancel ends when either the request or the pool context does.
func mergeCancel(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
