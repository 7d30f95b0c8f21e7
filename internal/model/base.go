package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard Audit Trails.
// Rows are hard-deleted so foreign keys between sales, items and products stay enforceable.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(64)" json:"created_by"`
	UpdatedBy string `gorm:"type:varchar(64)" json:"updated_by"`
}

// BeforeCreate assigns a UUID unless the caller already chose one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// Models lists every table, referenced tables first, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&Category{}, &Supplier{}, &Customer{},
		&Product{}, &Sale{}, &SaleItem{}, &StockMovement{},
	}
}
