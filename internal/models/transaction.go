package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeSettlement TransactionType = "SETTLEMENT" // bakiye tahsilatı
	TransactionTypeCharge     TransactionType = "CHARGE"     // denetim kaydı (iade vb.)
)

const TransactionStatusCompleted = "COMPLETED"

// Transaction: bir kez yazılır, asla güncellenmez (append-only denetim kaydı).
type Transaction struct {
	ID              string          `gorm:"type:uuid;primaryKey"`
	AdminID         string          `gorm:"type:uuid;index;not null"`
	CustomerID      string          `gorm:"type:uuid;index;not null"`
	Type            TransactionType `gorm:"size:20;not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status          string          `gorm:"size:20;not null"`
	Description     string          `gorm:"size:255"`
	TransactionDate time.Time       `gorm:"index;not null"`
	CreatedAt       time.Time
}
