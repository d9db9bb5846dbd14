package events

const (
	EmployeeCreated = "employee.created"
	EmployeeDeleted = "employee.deleted"
)

// EmployeeCreatedEvent asks for a login account for a freshly hired employee.
type EmployeeCreatedEvent struct {
	BaseEvent
	EmployeeID int64  `json:"employee_id"`
	Email      string `json:"email"`
}

func NewEmployeeCreatedEvent(employeeID int64, email string) EmployeeCreatedEvent {
	return EmployeeCreatedEvent{
		BaseEvent: NewBaseEvent(EmployeeCreated, map[string]interface{}{
			"employee_id": employeeID,
			"email":       email,
		}),
		EmployeeID: employeeID,
		Email:      email,
	}
}

type EmployeeDeletedEvent struct {
	BaseEvent
	EmployeeID int64 `json:"employee_id"`
}

func NewEmployeeDeletedEvent(employeeID int64) EmployeeDeletedEvent {
	return EmployeeDeletedEvent{
		BaseEvent:  NewBaseEvent(EmployeeDeleted, map[string]interface{}{"employee_id": employeeID}),
		EmployeeID: employeeID,
	}
}
