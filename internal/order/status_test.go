package order

import (
	"errors"
	"testing"

	"veresiye-backend/internal/models"
)

func TestNextStatus(t *testing.T) {
	cases := []struct {
		current models.OrderStatus
		action  string
		want    models.OrderStatus
		ok      bool
	}{
		{models.OrderStatusPending, ActionStart, models.OrderStatusApproved, true},
		{models.OrderStatusApproved, ActionComplete, models.OrderStatusCompleted, true},
		{models.OrderStatusPending, ActionCancel, models.OrderStatusCancelled, true},
		{models.OrderStatusApproved, ActionCancel, models.OrderStatusCancelled, true},

		// Atlama yok: PENDING doğrudan tamamlanamaz.
		{models.OrderStatusPending, ActionComplete, "", false},
		{models.OrderStatusApproved, ActionStart, "", false},

		// Uç durumlar geçiş kabul etmez.
		{models.OrderStatusCompleted, ActionStart, "", false},
		{models.OrderStatusCompleted, ActionCancel, "", false},
		{models.OrderStatusCancelled, ActionStart, "", false},
		{models.OrderStatusCancelled, ActionCancel, "", false},

		{models.OrderStatusPending, "bilinmeyen", "", false},
	}

	for _, tc := range cases {
		got, err := nextStatus(tc.current, tc.action)
		if tc.ok {
			if err != nil {
				t.Errorf("nextStatus(%s, %s) err = %v", tc.current, tc.action, err)
				continue
			}
			if got != tc.want {
				t.Errorf("nextStatus(%s, %s) = %s, beklenen %s", tc.current, tc.action, got, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("nextStatus(%s, %s) err = %v, beklenen ErrInvalidTransition", tc.current, tc.action, err)
		}
	}
}
