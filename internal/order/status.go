package order

import (
	"errors"
	"fmt"

	"veresiye-backend/internal/models"
)

var ErrInvalidTransition = errors.New("geçersiz sipariş durumu geçişi")

// Sipariş aksiyonları. HTTP katmanı bu sabitlerle çağırır.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

// PENDING -> APPROVED -> COMPLETED; PENDING ve APPROVED iptal edilebilir.
// COMPLETED ve CANCELLED uç durumdur, hiçbir geçiş kabul etmez.
func nextStatus(current models.OrderStatus, action string) (models.OrderStatus, error) {
	switch action {
	case ActionStart:
		if current == models.OrderStatusPending {
			return models.OrderStatusApproved, nil
		}
	case ActionComplete:
		if current == models.OrderStatusApproved {
			return models.OrderStatusCompleted, nil
		}
	case ActionCancel:
		if current == models.OrderStatusPending || current == models.OrderStatusApproved {
			return models.OrderStatusCancelled, nil
		}
	}
	return "", fmt.Errorf("%w: %s durumundaki sipariş için %q yapılamaz", ErrInvalidTransition, current, action)
}
