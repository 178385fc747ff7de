// Package order, sipariş yaşam döngüsünü yönetir: oluşturma, durum geçişleri
// ve silme. CREDIT ödemeli siparişlerde ledger ile koordinasyonu buradan
// geçer; borç tam bir kez yazılır ve sipariş kaydıyla aynı transaction'da
// commit edilir.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"veresiye-backend/internal/events"
	"veresiye-backend/internal/ledger"
	"veresiye-backend/internal/models"
	"veresiye-backend/internal/store"
)

var (
	ErrEmptyOrder      = errors.New("sipariş en az bir kalem içermeli")
	ErrInvalidQuantity = errors.New("kalem adedi pozitif olmalı")
)

type CreateItemInput struct {
	MenuItemID string
	Quantity   int
}

type CreateInput struct {
	CustomerID    string
	PaymentMethod string
	Items         []CreateItemInput
	Tax           decimal.Decimal
	Notes         string
}

type Service struct {
	store           store.Store
	locks           *ledger.Locks
	publisher       events.Publisher
	reverseOnCancel bool
}

// ReverseChargeOnCancel politikası: açıkken COMPLETED durumdaki bir CREDIT
// siparişi iptal edilebilir ve borç aynı transaction içinde geri alınır.
// Kapalıyken (varsayılan) borç siparişin iptaliyle silinmez.
func NewService(st store.Store, locks *ledger.Locks, pub events.Publisher, reverseOnCancel bool) *Service {
	return &Service{store: st, locks: locks, publisher: pub, reverseOnCancel: reverseOnCancel}
}

// Create siparişi oluşturur. Kalem fiyatları menüden o anki değerle kopyalanır,
// toplam = kalem ara toplamları + vergi. CREDIT ödemede borç müşteriye yazılır
// ve sipariş doğrudan COMPLETED olarak açılır; limit aşımında hiçbir kayıt
// oluşmaz.
func (s *Service) Create(adminID string, in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if in.Tax.Sign() < 0 || !in.Tax.Equal(in.Tax.Round(2)) {
		return nil, ledger.ErrInvalidAmount
	}

	unlock := s.locks.Lock(in.CustomerID)
	defer unlock()

	var created *models.Order
	err := s.store.InTx(func(st store.Store) error {
		customer, err := st.LoadCustomer(in.CustomerID, adminID)
		if err != nil {
			return fmt.Errorf("müşteri: %w", err)
		}

		now := time.Now()
		orderID := uuid.NewString()
		total := in.Tax
		items := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			if it.Quantity <= 0 {
				return ErrInvalidQuantity
			}
			mi, err := st.LoadMenuItem(it.MenuItemID, adminID)
			if err != nil {
				return fmt.Errorf("menü kalemi: %w", err)
			}
			subtotal := mi.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			items = append(items, models.OrderItem{
				ID:         uuid.NewString(),
				OrderID:    orderID,
				MenuItemID: mi.ID,
				Name:       mi.Name,
				Quantity:   it.Quantity,
				UnitPrice:  mi.Price,
				Subtotal:   subtotal,
			})
			total = total.Add(subtotal)
		}

		o := &models.Order{
			ID:            orderID,
			AdminID:       adminID,
			CustomerID:    customer.ID,
			Status:        models.OrderStatusPending,
			PaymentMethod: in.PaymentMethod,
			TotalAmount:   total,
			Tax:           in.Tax,
			Notes:         in.Notes,
			OrderDate:     now,
			Items:         items,
		}

		if in.PaymentMethod == models.PaymentMethodCredit {
			if err := ledger.ApplyCharge(customer, total); err != nil {
				return err
			}
			// Veresiye siparişi oluşturulduğu anda hesaba yazılmış sayılır.
			o.Status = models.OrderStatusCompleted
			if err := st.SaveCustomer(customer); err != nil {
				return err
			}
		}

		if err := st.CreateOrder(o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.OrderCreated, created, "")
	return created, nil
}

// Transition siparişe start/complete/cancel aksiyonunu uygular.
func (s *Service) Transition(orderID, adminID, action string) (*models.Order, error) {
	o, err := s.store.LoadOrder(orderID, adminID)
	if err != nil {
		return nil, err
	}

	if action == ActionCancel && s.canReverse(o) {
		return s.cancelWithReversal(o.ID, o.AdminID, o.CustomerID)
	}

	prev := o.Status
	next, err := nextStatus(prev, action)
	if err != nil {
		return nil, err
	}
	o.Status = next
	if err := s.store.SaveOrder(o); err != nil {
		return nil, err
	}

	s.publish(eventTypeFor(next), o, prev)
	return o, nil
}

func (s *Service) canReverse(o *models.Order) bool {
	return s.reverseOnCancel &&
		o.PaymentMethod == models.PaymentMethodCredit &&
		o.Status == models.OrderStatusCompleted
}

// cancelWithReversal: ReverseChargeOnCancel açıkken COMPLETED bir CREDIT
// siparişinin iptali. Sipariş, müşteri kilidi alındıktan sonra transaction
// içinde yeniden okunur ve durum tekrar doğrulanır; kilit beklenirken başka
// bir istek siparişi iptal ettiyse iade ikinci kez uygulanmaz. Borç geri
// alınır ve denetim için CHARGE tipli bir kayıt düşülür; müşteri, kayıt ve
// sipariş tek transaction'da yazılır.
func (s *Service) cancelWithReversal(orderID, adminID, customerID string) (*models.Order, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	var (
		cancelled *models.Order
		prev      models.OrderStatus
	)
	err := s.store.InTx(func(st store.Store) error {
		o, err := st.LoadOrder(orderID, adminID)
		if err != nil {
			return err
		}
		if !s.canReverse(o) {
			return fmt.Errorf("%w: %s durumundaki sipariş için %q yapılamaz", ErrInvalidTransition, o.Status, ActionCancel)
		}
		customer, err := st.LoadCustomer(o.CustomerID, o.AdminID)
		if err != nil {
			return err
		}
		if err := ledger.ReverseCharge(customer, o.TotalAmount); err != nil {
			return err
		}
		t := &models.Transaction{
			ID:              uuid.NewString(),
			AdminID:         o.AdminID,
			CustomerID:      o.CustomerID,
			Type:            models.TransactionTypeCharge,
			Amount:          o.TotalAmount,
			Status:          models.TransactionStatusCompleted,
			Description:     fmt.Sprintf("Sipariş iptali iadesi: %s", o.ID),
			TransactionDate: time.Now(),
		}
		if err := st.SaveTransaction(t); err != nil {
			return err
		}
		if err := st.SaveCustomer(customer); err != nil {
			return err
		}
		prev = o.Status
		o.Status = models.OrderStatusCancelled
		if err := st.SaveOrder(o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.OrderCancelled, cancelled, prev)
	return cancelled, nil
}

// Delete siparişi kalemleriyle birlikte siler. Silme hiçbir durumda borcu
// geri almaz; iade gerekiyorsa önce iptal edilmeli.
func (s *Service) Delete(orderID, adminID string) error {
	o, err := s.store.LoadOrder(orderID, adminID)
	if err != nil {
		return err
	}
	return s.store.DeleteOrder(o)
}

func eventTypeFor(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusApproved:
		return events.OrderApproved
	case models.OrderStatusCompleted:
		return events.OrderCompleted
	case models.OrderStatusCancelled:
		return events.OrderCancelled
	}
	return events.OrderCreated
}

func (s *Service) publish(eventType string, o *models.Order, prev models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := events.OrderEvent{
		EventType:      eventType,
		OrderID:        o.ID,
		AdminID:        o.AdminID,
		CustomerID:     o.CustomerID,
		PreviousStatus: string(prev),
		NewStatus:      string(o.Status),
		TotalAmount:    o.TotalAmount,
		PaymentMethod:  o.PaymentMethod,
		Timestamp:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("sipariş olayı yayınlanamadı (%s, sipariş %s): %v", eventType, o.ID, err)
	}
}
