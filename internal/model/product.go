package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   string          `gorm:"type:text" json:"description"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category      *Category       `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty" validate:"-"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Cost          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	MinStockLevel int             `gorm:"not null;default:0" json:"min_stock_level"`
	// Barcode is unique when present; empty barcodes are stored as NULL.
	Barcode    *string    `gorm:"type:varchar(64);uniqueIndex" json:"barcode"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier   *Supplier  `gorm:"constraint:OnDelete:SET NULL" json:"supplier,omitempty" validate:"-"`
}

// IsLowStock reports whether the on-hand quantity reached the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}
