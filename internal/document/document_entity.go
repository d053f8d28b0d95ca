package document

import (
	"time"

	"github.com/google/uuid"
)

// Document dimiliki oleh tepat satu Employee dan ikut terhapus bersamanya.
// ExpiryDate nil berarti dokumen permanen (tidak pernah kedaluwarsa); status
// urgensi tidak pernah disimpan, selalu dihitung ulang saat dibaca.
type Document struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name       string    `gorm:"type:varchar(255);not null"`
	ExpiryDate *time.Time
	FileURL    string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}
