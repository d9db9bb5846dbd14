package feedback

import "time"

type Feedback struct {
	ID           int64     `gorm:"primaryKey"`
	EmployeeID   int64     `gorm:"column:employee_id;not null;index"`
	Comments     string    `gorm:"column:comments;type:text"`
	Rating       float64   `gorm:"column:rating;not null"`
	FeedbackDate time.Time `gorm:"column:feedback_date;not null"`
	CreatedBy    *int64    `gorm:"column:created_by"`
}

func (Feedback) TableName() string {
	return "feedback"
}
