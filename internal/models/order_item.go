package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem: sipariş kalemi. UnitPrice sipariş anındaki menü fiyatının
// kopyasıdır, menü sonradan değişse de sabit kalır.
type OrderItem struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	OrderID    string          `gorm:"type:uuid;index;not null"`
	MenuItemID string          `gorm:"type:uuid;not null"`
	Name       string          `gorm:"size:100;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// Subtotal türetilmiş bir değerdir, her kayıtta yeniden hesaplanır.
func (i *OrderItem) BeforeSave(*gorm.DB) error {
	i.Subtotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return nil
}
