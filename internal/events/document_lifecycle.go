package events

import "time"

const DocumentLifecycleTopic = "doctrack.document.lifecycle"

const (
	DocumentAdded   = "document_added"
	DocumentUpdated = "document_updated"
	DocumentDeleted = "document_deleted"
)

// DocumentLifecycleEvent dipublikasikan setiap kali dokumen karyawan berubah,
// dikonsumsi oleh audit consumer.
type DocumentLifecycleEvent struct {
	EventType  string     `json:"event_type"`
	RequestID  string     `json:"request_id,omitempty"`
	DocumentID string     `json:"document_id"`
	EmployeeID string     `json:"employee_id"`
	Name       string     `json:"name"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
