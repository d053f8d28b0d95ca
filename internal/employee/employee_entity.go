package employee

import (
	"time"

	"github.com/monaguib-hub/DocTrack/internal/document"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee adalah agregat utama: setiap dokumen dimiliki tepat satu
// employee, dan menghapus employee menghapus seluruh dokumennya.
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Position  string    `gorm:"type:varchar(255)"`
	Documents []document.Document `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
