package store

import (
	"errors"

	"gorm.io/gorm"

	"veresiye-backend/internal/models"
)

// Gorm: Postgres üzerinde çalışan Store implementasyonu.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) LoadCustomer(id, adminID string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.First(&c, "id = ? AND admin_id = ?", id, adminID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Gorm) SaveCustomer(c *models.Customer) error {
	if c.Version == 0 {
		c.Version = 1
		return s.db.Create(c).Error
	}

	// Okunan versiyon hâlâ geçerliyse yaz; değilse araya başka bir yazma
	// girmiş demektir.
	prev := c.Version
	c.Version = prev + 1
	res := s.db.Model(&models.Customer{}).
		Where("id = ? AND version = ?", c.ID, prev).
		Updates(map[string]any{
			"name":           c.Name,
			"phone":          c.Phone,
			"email":          c.Email,
			"address":        c.Address,
			"credit_limit":   c.CreditLimit,
			"credit_balance": c.CreditBalance,
			"active":         c.Active,
			"version":        c.Version,
		})
	if res.Error != nil {
		c.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		c.Version = prev
		return ErrConflict
	}
	return nil
}

func (s *Gorm) DeleteCustomer(c *models.Customer) error {
	return s.db.Delete(&models.Customer{}, "id = ? AND admin_id = ?", c.ID, c.AdminID).Error
}

func (s *Gorm) LoadOrder(id, adminID string) (*models.Order, error) {
	var o models.Order
	err := s.db.Preload("Items").First(&o, "id = ? AND admin_id = ?", id, adminID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Gorm) CreateOrder(o *models.Order) error {
	return s.db.Create(o).Error
}

func (s *Gorm) SaveOrder(o *models.Order) error {
	// Sipariş oluşturulduktan sonra sadece durum ve not değişebilir.
	return s.db.Model(&models.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{"status": o.Status, "notes": o.Notes}).Error
}

func (s *Gorm) DeleteOrder(o *models.Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderItem{}, "order_id = ?", o.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", o.ID).Error
	})
}

func (s *Gorm) LoadMenuItem(id, adminID string) (*models.MenuItem, error) {
	var m models.MenuItem
	err := s.db.First(&m, "id = ? AND admin_id = ?", id, adminID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Gorm) SaveTransaction(t *models.Transaction) error {
	return s.db.Create(t).Error
}

func (s *Gorm) InTx(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}
