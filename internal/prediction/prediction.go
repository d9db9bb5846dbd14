package prediction

import (
	"fmt"

	"github.com/frahmantamala/performance-tracker/internal/classify"
	employeeDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/employee"
	predictiontypes "github.com/frahmantamala/performance-tracker/internal/core/datamodel/prediction"
)

// Response is the result of scoring one employee.
type Response struct {
	EmployeeID            int64              `json:"employee_id"`
	AttritionPrediction   string             `json:"attrition_prediction"`
	AttritionProbability  float64            `json:"attrition_probability"`
	PerformancePrediction float64            `json:"performance_prediction"`
	RiskLevel             classify.RiskLevel `json:"risk_level"`
}

type BatchResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}

func newBatchResponse(updated int) BatchResponse {
	return BatchResponse{
		Message:      fmt.Sprintf("Successfully updated predictions for %d employees", updated),
		UpdatedCount: updated,
	}
}

// FeaturesOf builds the model input, substituting neutral survey values when missing.
func FeaturesOf(e *employeeDatamodel.Employee) predictiontypes.Features {
	satisfaction := predictiontypes.DefaultSatisfaction
	if e.SatisfactionLevel != nil {
		satisfaction = *e.SatisfactionLevel
	}
	evaluation := predictiontypes.DefaultEvaluation
	if e.LastEvaluationScore != nil {
		evaluation = *e.LastEvaluationScore
	}
	return predictiontypes.Features{
		Age:                 e.Age,
		Experience:          e.Experience,
		Salary:              e.Salary,
		Department:          e.Department,
		SatisfactionLevel:   satisfaction,
		LastEvaluationScore: evaluation,
		ProjectCount:        e.ProjectCount,
		WorkHours:           e.WorkHours,
	}
}

func responseOf(employeeID int64, out predictiontypes.Output) Response {
	return Response{
		EmployeeID:            employeeID,
		AttritionPrediction:   classify.AttritionLabel(out.AttritionProbability),
		AttritionProbability:  out.AttritionProbability,
		PerformancePrediction: out.PerformancePrediction,
		RiskLevel:             classify.RiskLevelOf(out.AttritionProbability),
	}
}
