package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount        = errors.New("tutar geçersiz")
	ErrCreditLimitExceeded  = errors.New("kredi limiti aşıldı")
	ErrNoOutstandingBalance = errors.New("ödenmemiş bakiye yok")
	ErrAmountExceedsBalance = errors.New("tutar mevcut bakiyeden büyük")
	ErrLimitBelowBalance    = errors.New("kredi limiti mevcut bakiyenin altına çekilemez")
)

// OutstandingBalanceError: bakiyesi sıfır olmayan bir müşteri silinmek
// istendiğinde döner, mevcut bakiyeyi taşır ki arayüz gösterebilsin.
type OutstandingBalanceError struct {
	Balance decimal.Decimal
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("müşterinin %s tutarında ödenmemiş bakiyesi var, silinemez", e.Balance.StringFixed(2))
}
