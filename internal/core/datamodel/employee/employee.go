package employee

import "time"

type Employee struct {
	ID                    int64     `gorm:"primaryKey"`
	Name                  string    `gorm:"column:name;size:100;not null"`
	Email                 string    `gorm:"column:email;size:100;uniqueIndex;not null"`
	Department            string    `gorm:"column:department;size:50;not null;index"`
	Age                   int       `gorm:"column:age;not null"`
	Experience            int       `gorm:"column:experience;not null"`
	Salary                float64   `gorm:"column:salary;not null"`
	PerformanceScore      *float64  `gorm:"column:performance_score"`
	SatisfactionLevel     *float64  `gorm:"column:satisfaction_level"`
	LastEvaluationScore   *float64  `gorm:"column:last_evaluation_score"`
	ProjectCount          int       `gorm:"column:project_count;not null"`
	WorkHours             int       `gorm:"column:work_hours;not null"`
	AttritionPrediction   string    `gorm:"column:attrition_prediction;size:1;not null"`
	AttritionProbability  float64   `gorm:"column:attrition_probability;not null"`
	PerformancePrediction *float64  `gorm:"column:performance_prediction"`
	IsActive              bool      `gorm:"column:is_active;not null"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
