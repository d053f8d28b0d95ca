package employee

import (
	"time"

	"github.com/monaguib-hub/DocTrack/internal/document"
	"github.com/monaguib-hub/DocTrack/internal/expiry"
)

type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Position string `json:"position"`
}

type UpdateEmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Position string `json:"position"`
}

type EmployeeResponse struct {
	ID        string                      `json:"id"`
	Name      string                      `json:"name"`
	Position  string                      `json:"position,omitempty"`
	Status    expiry.Status               `json:"status"`
	Documents []document.DocumentResponse `json:"documents"`
}

// StatsResponse adalah angka ringkasan untuk dashboard.
type StatsResponse struct {
	TotalEmployees int64 `json:"total_employees"`
	TotalDocuments int64 `json:"total_documents"`
	WarningCount   int64 `json:"warning_count"`
	CriticalCount  int64 `json:"critical_count"`
}

// mapToResponse menurunkan status employee dari dokumen terburuknya:
// satu dokumen critical membuat employee critical, dst. Tanpa dokumen
// kedaluwarsa berarti safe.
func mapToResponse(empl Employee, now time.Time) EmployeeResponse {
	docs := document.MapToListResponse(empl.Documents, now)
	status := expiry.StatusSafe
	for _, d := range docs {
		switch d.Status {
		case expiry.StatusCritical:
			status = expiry.StatusCritical
		case expiry.StatusWarning:
			if status != expiry.StatusCritical {
				status = expiry.StatusWarning
			}
		}
	}
	if docs == nil {
		docs = []document.DocumentResponse{}
	}
	return EmployeeResponse{
		ID:        empl.ID.String(),
		Name:      empl.Name,
		Position:  empl.Position,
		Status:    status,
		Documents: docs,
	}
}

func mapToListResponse(empls []Employee, now time.Time) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e, now)
	}
	return res
}
