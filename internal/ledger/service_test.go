package ledger

import (
	"errors"
	"sync"
	"testing"

	"veresiye-backend/internal/models"
	"veresiye-backend/internal/store"
	"veresiye-backend/internal/store/storetest"
)

func seedCustomer(t *testing.T, m *storetest.Memory, limit, balance string) *models.Customer {
	t.Helper()
	c := newCustomer(t, limit, balance)
	c.Version = 1
	m.Customers[c.ID] = *c
	return c
}

func TestServiceSettleBalance(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "400")
	svc := NewService(m, NewLocks())

	customer, trx, err := svc.SettleBalance("c1", "a1", dec(t, "250"))
	if err != nil {
		t.Fatalf("SettleBalance: %v", err)
	}
	if !customer.CreditBalance.Equal(dec(t, "150")) {
		t.Errorf("bakiye = %s, beklenen 150", customer.CreditBalance)
	}
	if trx.Type != models.TransactionTypeSettlement {
		t.Errorf("işlem tipi = %s, beklenen SETTLEMENT", trx.Type)
	}
	if !trx.Amount.Equal(dec(t, "250")) {
		t.Errorf("işlem tutarı = %s, beklenen 250", trx.Amount)
	}
	if trx.Status != models.TransactionStatusCompleted {
		t.Errorf("işlem durumu = %s, beklenen COMPLETED", trx.Status)
	}
	if len(m.Transactions) != 1 {
		t.Errorf("işlem kaydı sayısı = %d, beklenen 1", len(m.Transactions))
	}

	stored := m.Customers["c1"]
	if !stored.CreditBalance.Equal(dec(t, "150")) {
		t.Errorf("kalıcı bakiye = %s, beklenen 150", stored.CreditBalance)
	}
}

func TestServiceSettleBalanceRejected(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "150")
	svc := NewService(m, NewLocks())

	_, _, err := svc.SettleBalance("c1", "a1", dec(t, "200"))
	if !errors.Is(err, ErrAmountExceedsBalance) {
		t.Fatalf("err = %v, beklenen ErrAmountExceedsBalance", err)
	}
	if len(m.Transactions) != 0 {
		t.Errorf("başarısız tahsilatta işlem kaydı oluştu")
	}
	stored := m.Customers["c1"]
	if !stored.CreditBalance.Equal(dec(t, "150")) {
		t.Errorf("bakiye = %s, beklenen 150", stored.CreditBalance)
	}
}

func TestServiceSettleFull(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "150")
	svc := NewService(m, NewLocks())

	customer, trx, err := svc.SettleFull("c1", "a1")
	if err != nil {
		t.Fatalf("SettleFull: %v", err)
	}
	if !customer.CreditBalance.IsZero() {
		t.Errorf("bakiye = %s, beklenen 0", customer.CreditBalance)
	}
	if !trx.Amount.Equal(dec(t, "150")) {
		t.Errorf("işlem tutarı = %s, beklenen 150", trx.Amount)
	}
}

// Başka bir admin'in müşterisi ayırt edilemez şekilde "bulunamadı" olmalı.
func TestServiceCrossTenantSettle(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "400")
	svc := NewService(m, NewLocks())

	_, _, err := svc.SettleBalance("c1", "baska-admin", dec(t, "100"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, beklenen ErrNotFound", err)
	}
}

func TestServiceDeleteCustomer(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "150")
	svc := NewService(m, NewLocks())

	// Bakiye varken silme reddedilir.
	err := svc.DeleteCustomer("c1", "a1")
	var obErr *OutstandingBalanceError
	if !errors.As(err, &obErr) {
		t.Fatalf("err = %v, beklenen OutstandingBalanceError", err)
	}
	if !obErr.Balance.Equal(dec(t, "150")) {
		t.Errorf("hatadaki bakiye = %s, beklenen 150", obErr.Balance)
	}

	// Bakiye kapatılınca silinebilir.
	if _, _, err := svc.SettleBalance("c1", "a1", dec(t, "150")); err != nil {
		t.Fatalf("SettleBalance: %v", err)
	}
	if err := svc.DeleteCustomer("c1", "a1"); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	if _, ok := m.Customers["c1"]; ok {
		t.Error("müşteri hâlâ duruyor")
	}
}

func TestServiceUpdateCreditLimit(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "400")
	svc := NewService(m, NewLocks())

	if _, err := svc.UpdateCreditLimit("c1", "a1", dec(t, "300")); !errors.Is(err, ErrLimitBelowBalance) {
		t.Fatalf("err = %v, beklenen ErrLimitBelowBalance", err)
	}

	customer, err := svc.UpdateCreditLimit("c1", "a1", dec(t, "2000"))
	if err != nil {
		t.Fatalf("UpdateCreditLimit: %v", err)
	}
	if !customer.CreditLimit.Equal(dec(t, "2000")) {
		t.Errorf("limit = %s, beklenen 2000", customer.CreditLimit)
	}
}

// Müşteri yazımı düşerse transaction geri alınır: daha önce yazılmış
// tahsilat kaydı da görünmez.
func TestServiceSettleRollbackOnFailedWrite(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "400")
	m.FailSaveCustomer = errors.New("yazma hatası")
	svc := NewService(m, NewLocks())

	if _, _, err := svc.SettleBalance("c1", "a1", dec(t, "250")); err == nil {
		t.Fatal("hata bekleniyordu")
	}
	if len(m.Transactions) != 0 {
		t.Errorf("geri alınan tahsilatta işlem kaydı kaldı: %d", len(m.Transactions))
	}
	stored := m.Customers["c1"]
	if !stored.CreditBalance.Equal(dec(t, "400")) {
		t.Errorf("bakiye = %s, beklenen 400", stored.CreditBalance)
	}
}

// İki eşzamanlı tahsilat tek tek geçerli ama birlikte bakiyeyi eksiye
// düşürecekse tam olarak biri başarılı olmalı.
func TestServiceConcurrentSettle(t *testing.T) {
	m := storetest.NewMemory()
	seedCustomer(t, m, "1000", "400")
	svc := NewService(m, NewLocks())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.SettleBalance("c1", "a1", dec(t, "300"))
		}(i)
	}
	wg.Wait()

	var success, exceeded int
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrAmountExceedsBalance):
			exceeded++
		default:
			t.Fatalf("beklenmeyen hata: %v", err)
		}
	}
	if success != 1 || exceeded != 1 {
		t.Fatalf("başarılı = %d, reddedilen = %d; beklenen 1/1", success, exceeded)
	}

	stored := m.Customers["c1"]
	if !stored.CreditBalance.Equal(dec(t, "100")) {
		t.Errorf("bakiye = %s, beklenen 100", stored.CreditBalance)
	}
	if len(m.Transactions) != 1 {
		t.Errorf("işlem kaydı sayısı = %d, beklenen 1", len(m.Transactions))
	}
}
