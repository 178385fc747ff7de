package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"veresiye-backend/internal/models"
	"veresiye-backend/internal/store"
)

// Service, bakiye değiştiren iş akışlarını yürütür: müşteri kilidini alır,
// kaydı yükler, ledger kuralını uygular ve sonucu tek transaction'da yazar.
type Service struct {
	store store.Store
	locks *Locks
}

func NewService(st store.Store, locks *Locks) *Service {
	return &Service{store: st, locks: locks}
}

// SettleBalance belirtilen tutarı tahsil eder ve SETTLEMENT kaydı üretir.
func (s *Service) SettleBalance(customerID, adminID string, amount decimal.Decimal) (*models.Customer, *models.Transaction, error) {
	return s.settle(customerID, adminID, &amount)
}

// SettleFull bakiyenin tamamını kapatır.
func (s *Service) SettleFull(customerID, adminID string) (*models.Customer, *models.Transaction, error) {
	return s.settle(customerID, adminID, nil)
}

func (s *Service) settle(customerID, adminID string, amount *decimal.Decimal) (*models.Customer, *models.Transaction, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	var (
		customer *models.Customer
		trx      *models.Transaction
	)
	err := s.store.InTx(func(st store.Store) error {
		c, err := st.LoadCustomer(customerID, adminID)
		if err != nil {
			return err
		}

		var settled decimal.Decimal
		if amount == nil {
			settled, err = SettleFull(c)
		} else {
			settled = *amount
			err = SettleBalance(c, settled)
		}
		if err != nil {
			return err
		}

		t := &models.Transaction{
			ID:              uuid.NewString(),
			AdminID:         adminID,
			CustomerID:      c.ID,
			Type:            models.TransactionTypeSettlement,
			Amount:          settled,
			Status:          models.TransactionStatusCompleted,
			TransactionDate: time.Now(),
		}
		if err := st.SaveTransaction(t); err != nil {
			return err
		}
		if err := st.SaveCustomer(c); err != nil {
			return err
		}
		customer, trx = c, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return customer, trx, nil
}

// DeleteCustomer, bakiyesi sıfır olmayan müşteriyi silmeyi reddeder.
func (s *Service) DeleteCustomer(customerID, adminID string) error {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	return s.store.InTx(func(st store.Store) error {
		c, err := st.LoadCustomer(customerID, adminID)
		if err != nil {
			return err
		}
		if !CanDelete(c) {
			return &OutstandingBalanceError{Balance: c.CreditBalance}
		}
		return st.DeleteCustomer(c)
	})
}

// UpdateCreditLimit limiti günceller; bakiyenin altına indirmeye izin vermez.
func (s *Service) UpdateCreditLimit(customerID, adminID string, newLimit decimal.Decimal) (*models.Customer, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	var customer *models.Customer
	err := s.store.InTx(func(st store.Store) error {
		c, err := st.LoadCustomer(customerID, adminID)
		if err != nil {
			return err
		}
		if err := UpdateCreditLimit(c, newLimit); err != nil {
			return err
		}
		if err := st.SaveCustomer(c); err != nil {
			return err
		}
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}
