package employee

import (
	"time"

	"github.com/frahmantamala/performance-tracker/internal/classify"
)

// Employee is the record shared by the API, the dashboard and the analytics code.
type Employee struct {
	ID                    int64     `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Department            string    `json:"department"`
	Age                   int       `json:"age"`
	Experience            int       `json:"experience"`
	Salary                float64   `json:"salary"`
	SatisfactionLevel     *float64  `json:"satisfaction_level"`
	LastEvaluationScore   *float64  `json:"last_evaluation_score"`
	ProjectCount          int       `json:"project_count"`
	WorkHours             int       `json:"work_hours"`
	PerformanceScore      *float64  `json:"performance_score"`
	AttritionPrediction   string    `json:"attrition_prediction"`
	AttritionProbability  float64   `json:"attrition_probability"`
	PerformancePrediction *float64  `json:"performance_prediction"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (e Employee) RiskLevel() classify.RiskLevel {
	return classify.RiskLevelOf(e.AttritionProbability)
}

func (e Employee) Grade() (classify.Grade, bool) {
	return classify.GradeOfPtr(e.PerformanceScore)
}

type Feedback struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	Comments     string    `json:"comments"`
	Rating       float64   `json:"rating"`
	FeedbackDate time.Time `json:"feedback_date"`
	CreatedBy    *int64    `json:"created_by"`
}
