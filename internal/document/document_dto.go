package document

import (
	"time"

	"github.com/monaguib-hub/DocTrack/internal/expiry"
)

type AddDocumentRequest struct {
	Name       string `form:"name" json:"name" binding:"required"`
	ExpiryDate string `form:"expiry_date" json:"expiry_date"` // YYYY-MM-DD, kosong = permanen
}

type UpdateDocumentRequest struct {
	Name       string `form:"name" json:"name" binding:"required"`
	ExpiryDate string `form:"expiry_date" json:"expiry_date"`
}

type DocumentResponse struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Name       string        `json:"name"`
	ExpiryDate string        `json:"expiry_date,omitempty"`
	FileURL    string        `json:"file_url,omitempty"`
	Status     expiry.Status `json:"status"`
}

// MapToResponse menghitung status urgensi saat mapping; status bukan state
// yang disimpan dan harus selalu konsisten dengan expiry_date dan now.
func MapToResponse(doc Document, now time.Time) DocumentResponse {
	resp := DocumentResponse{
		ID:         doc.ID.String(),
		EmployeeID: doc.EmployeeID.String(),
		Name:       doc.Name,
		FileURL:    doc.FileURL,
		Status:     expiry.Classify(doc.ExpiryDate, now),
	}
	if doc.ExpiryDate != nil {
		resp.ExpiryDate = doc.ExpiryDate.Format("2006-01-02")
	}
	return resp
}

func MapToListResponse(docs []Document, now time.Time) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = MapToResponse(d, now)
	}
	return res
}
