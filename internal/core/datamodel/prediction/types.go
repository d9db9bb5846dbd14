package prediction

import (
	"errors"
	"math"
)

// Neutral defaults sent to the model when an employee has no survey data yet.
const (
	DefaultSatisfaction = 0.7
	DefaultEvaluation   = 0.7
)

// Features is the request body of the model service's /predict endpoint.
type Features struct {
	Age                 int     `json:"age"`
	Experience          int     `json:"experience"`
	Salary              float64 `json:"salary"`
	Department          string  `json:"department"`
	SatisfactionLevel   float64 `json:"satisfaction_level"`
	LastEvaluationScore float64 `json:"last_evaluation_score"`
	ProjectCount        int     `json:"project_count"`
	WorkHours           int     `json:"work_hours"`
}

func (f *Features) Validate() error {
	if f.Department == "" {
		return errors.New("department is required")
	}
	if f.Salary <= 0 {
		return errors.New("salary must be greater than 0")
	}
	return nil
}

// Output is what the model service answers.
type Output struct {
	AttritionProbability  float64 `json:"attrition_probability"`
	PerformancePrediction float64 `json:"performance_prediction"`
}

func (o *Output) Validate() error {
	if math.IsNaN(o.AttritionProbability) || math.IsNaN(o.PerformancePrediction) {
		return errors.New("model returned NaN")
	}
	return nil
}

// Clamped keeps the probability in [0,1] and the performance score in [0,100].
func (o Output) Clamped() Output {
	o.AttritionProbability = math.Max(0, math.Min(1, o.AttritionProbability))
	o.PerformancePrediction = math.Max(0, math.Min(100, o.PerformancePrediction))
	return o
}
