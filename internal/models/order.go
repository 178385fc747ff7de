package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Ödeme yöntemi serbest bir string kümesidir; ledger ile etkileşimi sadece CREDIT tetikler.
const (
	PaymentMethodCash   = "CASH"
	PaymentMethodCard   = "CARD"
	PaymentMethodCredit = "CREDIT"
)

// Order: TotalAmount ve CustomerID oluşturulduktan sonra değişmez,
// durum geçişleri sadece Status alanını günceller.
type Order struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	AdminID       string          `gorm:"type:uuid;index;not null"`
	CustomerID    string          `gorm:"type:uuid;index;not null"`
	Status        OrderStatus     `gorm:"size:20;not null"`
	PaymentMethod string          `gorm:"size:20;not null"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"` // vergi dahil
	Tax           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Notes         string          `gorm:"size:255"`
	OrderDate     time.Time       `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
