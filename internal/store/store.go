// Package store, kalıcılık sınırıdır. Tüm okuma/yazmalar (id, adminID)
// çiftiyle yapılır; başka bir admin'in kaydına erişim ayırt edilemez şekilde
// ErrNotFound döner.
package store

import (
	"errors"

	"veresiye-backend/internal/models"
)

var (
	ErrNotFound = errors.New("kayıt bulunamadı")
	ErrConflict = errors.New("eşzamanlı yazma çakışması")
)

type Store interface {
	LoadCustomer(id, adminID string) (*models.Customer, error)
	// SaveCustomer yeni müşteriyi oluşturur, mevcut müşteriyi versiyon
	// kontrolüyle günceller; bayat yazma ErrConflict döner.
	SaveCustomer(c *models.Customer) error
	DeleteCustomer(c *models.Customer) error

	LoadOrder(id, adminID string) (*models.Order, error)
	CreateOrder(o *models.Order) error
	SaveOrder(o *models.Order) error
	// DeleteOrder siparişle birlikte kalemlerini de siler.
	DeleteOrder(o *models.Order) error

	LoadMenuItem(id, adminID string) (*models.MenuItem, error)

	SaveTransaction(t *models.Transaction) error

	// InTx verilen fonksiyonu tek bir veritabanı transaction'ı içinde çalıştırır.
	InTx(fn func(Store) error) error
}
