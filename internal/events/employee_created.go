package events

import "time"

const EmployeeCreatedTopic = "doctrack.employee.created"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
