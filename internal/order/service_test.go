package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"veresiye-backend/internal/events"
	"veresiye-backend/internal/ledger"
	"veresiye-backend/internal/models"
	"veresiye-backend/internal/store"
	"veresiye-backend/internal/store/storetest"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

// capturePublisher yayınlanan olayları biriktirir.
type capturePublisher struct {
	events []events.OrderEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func seed(t *testing.T, limit, balance, price string) *storetest.Memory {
	t.Helper()
	m := storetest.NewMemory()
	m.Customers["c1"] = models.Customer{
		ID:            "c1",
		AdminID:       "a1",
		Name:          "Ayşe",
		CreditLimit:   dec(t, limit),
		CreditBalance: dec(t, balance),
		Active:        true,
		Version:       1,
	}
	m.MenuItems["m1"] = models.MenuItem{
		ID:        "m1",
		AdminID:   "a1",
		Name:      "Adana Dürüm",
		Price:     dec(t, price),
		Available: true,
	}
	return m
}

func newTestService(m *storetest.Memory, pub events.Publisher, reverse bool) *Service {
	return NewService(m, ledger.NewLocks(), pub, reverse)
}

func TestCreateCreditOrder(t *testing.T) {
	m := seed(t, "1000", "0", "400")
	pub := &capturePublisher{}
	svc := newTestService(m, pub, false)

	o, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Veresiye siparişi doğrudan COMPLETED açılır, borç bakiyeye yazılır.
	if o.Status != models.OrderStatusCompleted {
		t.Errorf("durum = %s, beklenen COMPLETED", o.Status)
	}
	if !o.TotalAmount.Equal(dec(t, "400")) {
		t.Errorf("toplam = %s, beklenen 400", o.TotalAmount)
	}
	if got := m.Customers["c1"].CreditBalance; !got.Equal(dec(t, "400")) {
		t.Errorf("bakiye = %s, beklenen 400", got)
	}

	if len(pub.events) != 1 || pub.events[0].EventType != events.OrderCreated {
		t.Errorf("olaylar = %+v, beklenen tek ORDER_CREATED", pub.events)
	}

	// İkinci sipariş limiti aşar: hiçbir kayıt oluşmaz, bakiye değişmez.
	_, err = svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}, {MenuItemID: "m1", Quantity: 1}},
	})
	if !errors.Is(err, ledger.ErrCreditLimitExceeded) {
		t.Fatalf("err = %v, beklenen ErrCreditLimitExceeded", err)
	}
	if got := m.Customers["c1"].CreditBalance; !got.Equal(dec(t, "400")) {
		t.Errorf("başarısız siparişte bakiye değişti: %s", got)
	}
	if len(m.Orders) != 1 {
		t.Errorf("sipariş sayısı = %d, beklenen 1", len(m.Orders))
	}
}

func TestCreateCashOrder(t *testing.T) {
	m := seed(t, "1000", "0", "120.50")
	svc := newTestService(m, &capturePublisher{}, false)

	o, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 2}},
		Tax:           dec(t, "10"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if o.Status != models.OrderStatusPending {
		t.Errorf("durum = %s, beklenen PENDING", o.Status)
	}
	// 2 x 120.50 + 10 vergi
	if !o.TotalAmount.Equal(dec(t, "251")) {
		t.Errorf("toplam = %s, beklenen 251", o.TotalAmount)
	}
	if len(o.Items) != 1 {
		t.Fatalf("kalem sayısı = %d", len(o.Items))
	}
	if !o.Items[0].Subtotal.Equal(dec(t, "241")) {
		t.Errorf("ara toplam = %s, beklenen 241", o.Items[0].Subtotal)
	}
	if !o.Items[0].UnitPrice.Equal(dec(t, "120.50")) {
		t.Errorf("birim fiyat = %s, beklenen 120.50", o.Items[0].UnitPrice)
	}
	// Nakit sipariş bakiyeye dokunmaz.
	if got := m.Customers["c1"].CreditBalance; !got.IsZero() {
		t.Errorf("bakiye = %s, beklenen 0", got)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	m := seed(t, "1000", "0", "100")
	svc := newTestService(m, &capturePublisher{}, false)

	if _, err := svc.Create("a1", CreateInput{CustomerID: "c1", PaymentMethod: models.PaymentMethodCash}); !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("boş sipariş err = %v, beklenen ErrEmptyOrder", err)
	}

	_, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 0}},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("sıfır adet err = %v, beklenen ErrInvalidQuantity", err)
	}

	_, err = svc.Create("a1", CreateInput{
		CustomerID:    "yok",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("bilinmeyen müşteri err = %v, beklenen ErrNotFound", err)
	}

	// Başka admin'in müşterisi de "bulunamadı" olmalı.
	_, err = svc.Create("baska-admin", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-tenant err = %v, beklenen ErrNotFound", err)
	}
}

func TestTransitionFlow(t *testing.T) {
	m := seed(t, "1000", "0", "100")
	pub := &capturePublisher{}
	svc := newTestService(m, pub, false)

	o, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// PENDING doğrudan tamamlanamaz.
	if _, err := svc.Transition(o.ID, "a1", ActionComplete); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, beklenen ErrInvalidTransition", err)
	}

	o2, err := svc.Transition(o.ID, "a1", ActionStart)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if o2.Status != models.OrderStatusApproved {
		t.Errorf("durum = %s, beklenen APPROVED", o2.Status)
	}

	o3, err := svc.Transition(o.ID, "a1", ActionComplete)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if o3.Status != models.OrderStatusCompleted {
		t.Errorf("durum = %s, beklenen COMPLETED", o3.Status)
	}

	// COMPLETED başka geçiş kabul etmez.
	if _, err := svc.Transition(o.ID, "a1", ActionCancel); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, beklenen ErrInvalidTransition", err)
	}

	want := []string{events.OrderCreated, events.OrderApproved, events.OrderCompleted}
	if len(pub.events) != len(want) {
		t.Fatalf("olay sayısı = %d, beklenen %d", len(pub.events), len(want))
	}
	for i, ev := range pub.events {
		if ev.EventType != want[i] {
			t.Errorf("olay[%d] = %s, beklenen %s", i, ev.EventType, want[i])
		}
	}
	if pub.events[1].PreviousStatus != string(models.OrderStatusPending) {
		t.Errorf("önceki durum = %s, beklenen PENDING", pub.events[1].PreviousStatus)
	}
}

func TestCancelPendingOrder(t *testing.T) {
	m := seed(t, "1000", "0", "100")
	svc := newTestService(m, &capturePublisher{}, false)

	o, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCash,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	o2, err := svc.Transition(o.ID, "a1", ActionCancel)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if o2.Status != models.OrderStatusCancelled {
		t.Errorf("durum = %s, beklenen CANCELLED", o2.Status)
	}

	// İptal edilen sipariş tekrar başlatılamaz.
	if _, err := svc.Transition(o.ID, "a1", ActionStart); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, beklenen ErrInvalidTransition", err)
	}
}

// Varsayılan politika: COMPLETED bir CREDIT siparişi iptal edilemez, borç durur.
func TestCancelCreditOrderDefaultPolicy(t *testing.T) {
	m := seed(t, "1000", "0", "400")
	svc := newTestService(m, &capturePublisher{}, false)

	o, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Transition(o.ID, "a1", ActionCancel); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, beklenen ErrInvalidTransition", err)
	}
	if got := m.Customers["c1"].CreditBalance; !got.Equal(dec(t, "400")) {
		t.Errorf("bakiye = %s, beklenen 400", got)
	}
}

// ReverseChargeOnCancel açıkken iptal borcu geri alır ve CHARGE kaydı düşer.
func TestCancelCreditOrderWithReversal(t *testing.T) {
	m := seed(t, "1000", "0", "400")
	pub := &capturePublisher{}
	svc := newTestService(m, pub, true)

	o, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	o2, err := svc.Transition(o.ID, "a1", ActionCancel)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if o2.Status != models.OrderStatusCancelled {
		t.Errorf("durum = %s, beklenen CANCELLED", o2.Status)
	}
	if got := m.Customers["c1"].CreditBalance; !got.IsZero() {
		t.Errorf("bakiye = %s, beklenen 0", got)
	}

	if len(m.Transactions) != 1 {
		t.Fatalf("işlem kaydı sayısı = %d, beklenen 1", len(m.Transactions))
	}
	trx := m.Transactions[0]
	if trx.Type != models.TransactionTypeCharge {
		t.Errorf("işlem tipi = %s, beklenen CHARGE", trx.Type)
	}
	if !trx.Amount.Equal(dec(t, "400")) {
		t.Errorf("işlem tutarı = %s, beklenen 400", trx.Amount)
	}

	last := pub.events[len(pub.events)-1]
	if last.EventType != events.OrderCancelled {
		t.Errorf("son olay = %s, beklenen ORDER_CANCELLED", last.EventType)
	}
}

// Veresiye siparişinde borç ve sipariş kaydı tek transaction'dır: sipariş
// yazımı düşerse borç da görünmez.
func TestCreateCreditOrderRollbackOnFailedWrite(t *testing.T) {
	m := seed(t, "1000", "0", "400")
	m.FailCreateOrder = errors.New("yazma hatası")
	pub := &capturePublisher{}
	svc := newTestService(m, pub, false)

	_, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err == nil {
		t.Fatal("hata bekleniyordu")
	}
	if got := m.Customers["c1"].CreditBalance; !got.IsZero() {
		t.Errorf("bakiye = %s, beklenen 0", got)
	}
	if len(m.Orders) != 0 {
		t.Errorf("sipariş sayısı = %d, beklenen 0", len(m.Orders))
	}
	if len(pub.events) != 0 {
		t.Errorf("başarısız siparişte olay yayınlandı: %+v", pub.events)
	}
}

// Aynı COMPLETED veresiye siparişine eşzamanlı iki iptal gelirse iade tam
// bir kez uygulanır; kilidi sonradan alan istek güncel durumu görür ve
// geçersiz geçişle reddedilir.
func TestConcurrentCancelReversesOnce(t *testing.T) {
	m := seed(t, "1000", "0", "400")
	locks := ledger.NewLocks()
	pub := &capturePublisher{}
	svc := NewService(m, locks, pub, true)

	o1, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// İkinci sipariş bakiyeyi 800'e çıkarır; çifte iade onun borcunu silerdi.
	if _, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Müşteri kilidi testte tutulurken her iki istek de siparişi COMPLETED
	// olarak okur; kilit bırakılınca sıraya girerler.
	release := locks.Lock("c1")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transition(o1.ID, "a1", ActionCancel)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	release()
	wg.Wait()

	var success, invalid int
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrInvalidTransition):
			invalid++
		default:
			t.Fatalf("beklenmeyen hata: %v", err)
		}
	}
	if success != 1 || invalid != 1 {
		t.Fatalf("başarılı = %d, reddedilen = %d; beklenen 1/1", success, invalid)
	}

	if got := m.Customers["c1"].CreditBalance; !got.Equal(dec(t, "400")) {
		t.Errorf("bakiye = %s, beklenen 400", got)
	}
	var charges int
	for _, trx := range m.Transactions {
		if trx.Type == models.TransactionTypeCharge {
			charges++
		}
	}
	if charges != 1 {
		t.Errorf("CHARGE kaydı sayısı = %d, beklenen 1", charges)
	}
	if got := m.Orders[o1.ID].Status; got != models.OrderStatusCancelled {
		t.Errorf("durum = %s, beklenen CANCELLED", got)
	}
}

// Silme hiçbir zaman borcu geri almaz.
func TestDeleteOrderKeepsCharge(t *testing.T) {
	m := seed(t, "1000", "0", "400")
	svc := newTestService(m, &capturePublisher{}, true)

	o, err := svc.Create("a1", CreateInput{
		CustomerID:    "c1",
		PaymentMethod: models.PaymentMethodCredit,
		Items:         []CreateItemInput{{MenuItemID: "m1", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(o.ID, "a1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := m.Orders[o.ID]; ok {
		t.Error("sipariş hâlâ duruyor")
	}
	if got := m.Customers["c1"].CreditBalance; !got.Equal(dec(t, "400")) {
		t.Errorf("bakiye = %s, beklenen 400", got)
	}

	if err := svc.Delete("yok", "a1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, beklenen ErrNotFound", err)
	}
}
