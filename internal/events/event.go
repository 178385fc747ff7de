// Package events, sipariş olaylarının en-iyi-çaba yayınıdır. Yayın hatası
// loglanır, tetikleyen iş akışını asla geri almaz veya bloklamaz.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderCreated   = "ORDER_CREATED"
	OrderApproved  = "ORDER_APPROVED"
	OrderCompleted = "ORDER_COMPLETED"
	OrderCancelled = "ORDER_CANCELLED"
)

type OrderEvent struct {
	EventType      string          `json:"event_type"`
	OrderID        string          `json:"order_id"`
	AdminID        string          `json:"admin_id"`
	CustomerID     string          `json:"customer_id"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	NewStatus      string          `json:"new_status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	Timestamp      time.Time       `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}
