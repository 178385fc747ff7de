package customer

import (
	"strings"
	"time"

	"veresiye-backend/internal/auth"
	"veresiye-backend/internal/ledger"
	"veresiye-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateCustomerRequest struct {
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

type UpdateCustomerRequest struct {
	Name        *string          `json:"name"`
	Phone       *string          `json:"phone"`
	Email       *string          `json:"email"`
	Address     *string          `json:"address"`
	Active      *bool            `json:"active"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

type SettleRequest struct {
	Amount *decimal.Decimal `json:"amount"` // boş bırakılırsa bakiyenin tamamı kapatılır
}

type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Active        bool            `json:"active"`
	CreatedAt     string          `json:"created_at"`
}

type TransactionResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transaction_date"`
}

func toCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		CreditLimit:   c.CreditLimit,
		CreditBalance: c.CreditBalance,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		Status:          t.Status,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.Format(time.RFC3339),
	}
}

// POST /api/customers
func CreateCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}
		if body.CreditLimit.Sign() < 0 || !body.CreditLimit.Equal(body.CreditLimit.Round(2)) {
			return fiber.NewError(fiber.StatusBadRequest, "credit_limit negatif olamaz, en fazla 2 ondalık basamak")
		}

		// Yeni müşteri her zaman sıfır bakiyeyle açılır.
		customer := models.Customer{
			ID:            uuid.NewString(),
			AdminID:       adminID,
			Name:          body.Name,
			Phone:         body.Phone,
			Email:         body.Email,
			Address:       body.Address,
			CreditLimit:   body.CreditLimit,
			CreditBalance: decimal.Zero,
			Active:        true,
			Version:       1,
		}

		if err := db.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(&customer))
	}
}

// GET /api/customers?q=...
func ListCustomersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		query := db.Where("admin_id = ?", adminID).Order("created_at DESC")
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			query = query.Where("name ILIKE ?", "%"+q+"%")
		}

		var customers []models.Customer
		if err := query.Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toCustomerResponse(&customers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/customers/:id
func GetCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var customer models.Customer
		if err := db.First(&customer, "id = ? AND admin_id = ?", c.Params("id"), adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		return c.JSON(toCustomerResponse(&customer))
	}
}

// PUT /api/customers/:id
// Limit değişikliği ledger servisi üzerinden gider; limit bakiyenin altına çekilemez.
func UpdateCustomerHandler(db *gorm.DB, svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		id := c.Params("id")

		var customer models.Customer
		if err := db.First(&customer, "id = ? AND admin_id = ?", id, adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		if body.CreditLimit != nil {
			if _, err := svc.UpdateCreditLimit(id, adminID, *body.CreditLimit); err != nil {
				return err
			}
		}

		updates := map[string]any{}
		if body.Name != nil {
			if strings.TrimSpace(*body.Name) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			updates["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Phone != nil {
			updates["phone"] = *body.Phone
		}
		if body.Email != nil {
			updates["email"] = *body.Email
		}
		if body.Address != nil {
			updates["address"] = *body.Address
		}
		if body.Active != nil {
			updates["active"] = *body.Active
		}
		if len(updates) > 0 {
			if err := db.Model(&models.Customer{}).
				Where("id = ? AND admin_id = ?", id, adminID).
				Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
			}
		}

		if err := db.First(&customer, "id = ? AND admin_id = ?", id, adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		return c.JSON(toCustomerResponse(&customer))
	}
}

// DELETE /api/customers/:id
func DeleteCustomerHandler(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		if err := svc.DeleteCustomer(c.Params("id"), adminID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/customers/:id/settle
func SettleBalanceHandler(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body SettleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var (
			customer *models.Customer
			trx      *models.Transaction
		)
		if body.Amount == nil {
			customer, trx, err = svc.SettleFull(c.Params("id"), adminID)
		} else {
			customer, trx, err = svc.SettleBalance(c.Params("id"), adminID, *body.Amount)
		}
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"customer":    toCustomerResponse(customer),
			"transaction": toTransactionResponse(trx),
		})
	}
}

// GET /api/customers/:id/transactions
func ListCustomerTransactionsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var count int64
		db.Model(&models.Customer{}).
			Where("id = ? AND admin_id = ?", c.Params("id"), adminID).
			Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var transactions []models.Transaction
		if err := db.Where("customer_id = ? AND admin_id = ?", c.Params("id"), adminID).
			Order("transaction_date DESC").
			Find(&transactions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		resp := make([]TransactionResponse, 0, len(transactions))
		for i := range transactions {
			resp = append(resp, toTransactionResponse(&transactions[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/transactions
func ListTransactionsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var transactions []models.Transaction
		if err := db.Where("admin_id = ?", adminID).
			Order("transaction_date DESC").
			Find(&transactions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		resp := make([]TransactionResponse, 0, len(transactions))
		for i := range transactions {
			resp = append(resp, toTransactionResponse(&transactions[i]))
		}
		return c.JSON(resp)
	}
}
