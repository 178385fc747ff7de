package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer: veresiye defterindeki müşteri.
// CreditBalance sadece ledger paketi üzerinden değişir; her commit sonrası
// 0 <= CreditBalance <= CreditLimit sağlanmak zorundadır.
type Customer struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	AdminID       string          `gorm:"type:uuid;index;not null"`
	Name          string          `gorm:"size:100;not null"`
	Phone         string          `gorm:"size:50"`
	Email         string          `gorm:"size:100"`
	Address       string          `gorm:"size:255"`
	CreditLimit   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreditBalance decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Active        bool            `gorm:"not null;default:true"`
	Version       int64           `gorm:"not null;default:0"` // iyimser kilitleme için
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
