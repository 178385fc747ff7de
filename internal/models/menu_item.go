package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	AdminID     string          `gorm:"type:uuid;index;not null"`
	Name        string          `gorm:"size:100;not null"`
	Description string          `gorm:"size:255"`
	Category    string          `gorm:"size:50"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Available   bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
