package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementReason string

const (
	MovementSale   MovementReason = "SALE"
	MovementManual MovementReason = "MANUAL"
)

// StockMovement records one change applied by the stock ledger.
type StockMovement struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Change        int            `gorm:"not null" json:"change"`
	QuantityAfter int            `gorm:"not null" json:"quantity_after"`
	Reason        MovementReason `gorm:"type:varchar(10);not null" json:"reason"`
	ReferenceID   *uuid.UUID     `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	CreatedBy     string         `gorm:"type:varchar(64)" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
