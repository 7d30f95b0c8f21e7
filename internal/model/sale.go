package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Sale struct {
	BaseModel
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	Customer      *Customer       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User           `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	Tax           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax"`
	FinalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"final_amount"`
	PaymentMethod string          `gorm:"type:varchar(20)" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// SaleItem is one line of a sale. Items are replaced wholesale, never edited in place.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	LineNo     int             `gorm:"not null;default:0" json:"line_no"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (item *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return nil
}

// SaleResponse is a sale enriched with the display names of its user, customer and products.
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    *uuid.UUID         `json:"customer_id"`
	CustomerName  string             `json:"customer_name,omitempty"`
	UserID        uuid.UUID          `json:"user_id"`
	UserName      string             `json:"user_name"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	FinalAmount   decimal.Decimal    `json:"final_amount"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// ToResponse converts Sale to SaleResponse
func (s *Sale) ToResponse() SaleResponse {
	response := SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		UserID:        s.UserID,
		TotalAmount:   s.TotalAmount,
		Discount:      s.Discount,
		Tax:           s.Tax,
		FinalAmount:   s.FinalAmount,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}

	if s.Customer != nil {
		response.CustomerName = s.Customer.Name
	}
	if s.User != nil {
		response.UserName = s.User.FullName
	}

	if len(s.Items) > 0 {
		response.Items = make([]SaleItemResponse, len(s.Items))
		for i, item := range s.Items {
			response.Items[i] = item.ToResponse()
		}
	}

	return response
}

func (item *SaleItem) ToResponse() SaleItemResponse {
	response := SaleItemResponse{
		ID:         item.ID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
	}
	if item.Product != nil {
		response.ProductName = item.Product.Name
	}
	return response
}
