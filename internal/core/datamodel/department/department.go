package department

import "time"

type Department struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:50;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}

// Headcount is a department joined with its number of active employees.
type Headcount struct {
	Name            string `gorm:"column:name"`
	Description     string `gorm:"column:description"`
	ActiveEmployees int    `gorm:"column:active_employees"`
}
