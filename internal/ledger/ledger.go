// Package ledger, müşteri veresiye bakiyesi üzerindeki tek yetkili mutasyon
// noktasıdır. Buradaki fonksiyonlar bellekteki Customer üzerinde çalışır;
// kalıcılık ve sipariş kaydıyla atomik commit çağıranın sorumluluğundadır.
package ledger

import (
	"github.com/shopspring/decimal"

	"veresiye-backend/internal/models"
)

// Para alanları en fazla 2 ondalık basamak taşır. Karşılaştırma değer
// üzerinden yapılır; "10.500" gibi sondaki sıfırlar reddedilmez.
func validAmount(amount decimal.Decimal) bool {
	return amount.Sign() > 0 && amount.Equal(amount.Round(2))
}

// ApplyCharge, CREDIT ödemeli bir sipariş oluşturulurken bakiyeye borç yazar.
// Yeni bakiye limiti aşacaksa hiçbir şey değişmez.
func ApplyCharge(c *models.Customer, amount decimal.Decimal) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	newBalance := c.CreditBalance.Add(amount)
	if newBalance.GreaterThan(c.CreditLimit) {
		return ErrCreditLimitExceeded
	}
	c.CreditBalance = newBalance
	return nil
}

// SettleBalance, tahsilat tutarını bakiyeden düşer. Transaction kaydını
// üretmek ve müşteriyle birlikte atomik yazmak servis katmanının işidir.
func SettleBalance(c *models.Customer, amount decimal.Decimal) error {
	if c.CreditBalance.Sign() <= 0 {
		return ErrNoOutstandingBalance
	}
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(c.CreditBalance) {
		return ErrAmountExceedsBalance
	}
	c.CreditBalance = c.CreditBalance.Sub(amount)
	return nil
}

// SettleFull bakiyenin tamamını kapatır ve kapatılan tutarı döner.
func SettleFull(c *models.Customer) (decimal.Decimal, error) {
	amount := c.CreditBalance
	if err := SettleBalance(c, amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ReverseCharge, daha önce yazılmış bir borcu geri alır (iptal iadesi).
func ReverseCharge(c *models.Customer, amount decimal.Decimal) error {
	if !validAmount(amount) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(c.CreditBalance) {
		return ErrAmountExceedsBalance
	}
	c.CreditBalance = c.CreditBalance.Sub(amount)
	return nil
}

// CanDelete: müşteri ancak bakiyesi sıfırken silinebilir.
func CanDelete(c *models.Customer) bool {
	return c.CreditBalance.IsZero()
}

// UpdateCreditLimit, limiti mevcut bakiyenin altına indirmeye izin vermez;
// geçerli bir müşteri sessizce invariant dışına düşmemeli.
func UpdateCreditLimit(c *models.Customer, newLimit decimal.Decimal) error {
	if newLimit.Sign() < 0 || !newLimit.Equal(newLimit.Round(2)) {
		return ErrInvalidAmount
	}
	if newLimit.LessThan(c.CreditBalance) {
		return ErrLimitBelowBalance
	}
	c.CreditLimit = newLimit
	return nil
}
