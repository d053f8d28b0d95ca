package doctype

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType adalah template tipe dokumen. Category hanya disimpan pada
// node akar; anak mewarisi kategori dari akarnya saat dibaca, sehingga tidak
// mungkin terjadi drift antara parent dan child.
type DocumentType struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Category  string     `gorm:"type:varchar(255);index"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DocumentType) TableName() string {
	return "document_types"
}
