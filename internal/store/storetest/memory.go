// Package storetest, servis testleri için bellek içi Store sağlar.
package storetest

import (
	"sync"

	"veresiye-backend/internal/models"
	"veresiye-backend/internal/store"
)

// Memory, store.Store arayüzünü map'ler üzerinde uygular. Load* çağrıları
// kopya döner, InTx hata dönen fonksiyonun yazdıklarını geri alır; böylece
// başarısız bir işlem kalıcı durumu kirletmez.
type Memory struct {
	mu           sync.Mutex
	Customers    map[string]models.Customer
	Orders       map[string]models.Order
	MenuItems    map[string]models.MenuItem
	Transactions []models.Transaction

	// Test kancaları: nil değilse ilgili yazma bu hatayla düşer.
	FailSaveCustomer error
	FailCreateOrder  error
}

func NewMemory() *Memory {
	return &Memory{
		Customers: make(map[string]models.Customer),
		Orders:    make(map[string]models.Order),
		MenuItems: make(map[string]models.MenuItem),
	}
}

func (m *Memory) LoadCustomer(id, adminID string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Customers[id]
	if !ok || c.AdminID != adminID {
		return nil, store.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (m *Memory) SaveCustomer(c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaveCustomer != nil {
		return m.FailSaveCustomer
	}
	if c.Version == 0 {
		c.Version = 1
		m.Customers[c.ID] = *c
		return nil
	}
	cur, ok := m.Customers[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	if cur.Version != c.Version {
		return store.ErrConflict
	}
	c.Version++
	m.Customers[c.ID] = *c
	return nil
}

func (m *Memory) DeleteCustomer(c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Customers, c.ID)
	return nil
}

func (m *Memory) LoadOrder(id, adminID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Orders[id]
	if !ok || o.AdminID != adminID {
		return nil, store.ErrNotFound
	}
	cp := o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (m *Memory) CreateOrder(o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateOrder != nil {
		return m.FailCreateOrder
	}
	m.Orders[o.ID] = *o
	return nil
}

func (m *Memory) SaveOrder(o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.Orders[o.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.Status = o.Status
	cur.Notes = o.Notes
	m.Orders[o.ID] = cur
	return nil
}

func (m *Memory) DeleteOrder(o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Orders, o.ID)
	return nil
}

func (m *Memory) LoadMenuItem(id, adminID string) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mi, ok := m.MenuItems[id]
	if !ok || mi.AdminID != adminID {
		return nil, store.ErrNotFound
	}
	cp := mi
	return &cp, nil
}

func (m *Memory) SaveTransaction(t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, *t)
	return nil
}

type snapshot struct {
	customers    map[string]models.Customer
	orders       map[string]models.Order
	menuItems    map[string]models.MenuItem
	transactions []models.Transaction
}

func (m *Memory) takeSnapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := snapshot{
		customers:    make(map[string]models.Customer, len(m.Customers)),
		orders:       make(map[string]models.Order, len(m.Orders)),
		menuItems:    make(map[string]models.MenuItem, len(m.MenuItems)),
		transactions: append([]models.Transaction(nil), m.Transactions...),
	}
	for k, v := range m.Customers {
		s.customers[k] = v
	}
	for k, v := range m.Orders {
		s.orders[k] = v
	}
	for k, v := range m.MenuItems {
		s.menuItems[k] = v
	}
	return s
}

func (m *Memory) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Customers = s.customers
	m.Orders = s.orders
	m.MenuItems = s.menuItems
	m.Transactions = s.transactions
}

// InTx, fn hata dönerse fn öncesi duruma geri döner. Snapshot tüm store'u
// kapsar; servisler InTx'i ilgili müşterinin kilidi altında çağırdığı sürece
// bu, gerçek transaction rollback'iyle aynı sonucu verir.
func (m *Memory) InTx(fn func(store.Store) error) error {
	s := m.takeSnapshot()
	if err := fn(m); err != nil {
		m.restore(s)
		return err
	}
	return nil
}
