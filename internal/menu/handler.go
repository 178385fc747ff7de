package menu

import (
	"strings"

	"veresiye-backend/internal/auth"
	"veresiye-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateMenuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
}

type MenuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
}

func toResponse(m *models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		Available:   m.Available,
	}
}

func validPrice(p decimal.Decimal) bool {
	return p.Sign() >= 0 && p.Equal(p.Round(2))
}

// POST /api/menu-items
func CreateMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}
		if !validPrice(body.Price) {
			return fiber.NewError(fiber.StatusBadRequest, "price negatif olamaz, en fazla 2 ondalık basamak")
		}

		item := models.MenuItem{
			ID:          uuid.NewString(),
			AdminID:     adminID,
			Name:        body.Name,
			Description: body.Description,
			Category:    body.Category,
			Price:       body.Price,
			Available:   true,
		}

		if err := db.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü kalemi oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(&item))
	}
}

// GET /api/menu-items
func ListMenuItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		query := db.Where("admin_id = ?", adminID).Order("name ASC")
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}

		var items []models.MenuItem
		if err := query.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü listelenemedi")
		}

		resp := make([]MenuItemResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toResponse(&items[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/menu-items/:id
func GetMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var item models.MenuItem
		if err := db.First(&item, "id = ? AND admin_id = ?", c.Params("id"), adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menü kalemi bulunamadı")
		}
		return c.JSON(toResponse(&item))
	}
}

// PUT /api/menu-items/:id
// Fiyat değişikliği geçmiş siparişleri etkilemez; kalemler sipariş anındaki
// fiyatı taşır.
func UpdateMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var item models.MenuItem
		if err := db.First(&item, "id = ? AND admin_id = ?", c.Params("id"), adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menü kalemi bulunamadı")
		}

		if body.Name != nil {
			if strings.TrimSpace(*body.Name) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			item.Name = strings.TrimSpace(*body.Name)
		}
		if body.Description != nil {
			item.Description = *body.Description
		}
		if body.Category != nil {
			item.Category = *body.Category
		}
		if body.Price != nil {
			if !validPrice(*body.Price) {
				return fiber.NewError(fiber.StatusBadRequest, "price negatif olamaz, en fazla 2 ondalık basamak")
			}
			item.Price = *body.Price
		}
		if body.Available != nil {
			item.Available = *body.Available
		}

		if err := db.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü kalemi güncellenemedi")
		}
		return c.JSON(toResponse(&item))
	}
}

// DELETE /api/menu-items/:id
func DeleteMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		res := db.Delete(&models.MenuItem{}, "id = ? AND admin_id = ?", c.Params("id"), adminID)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü kalemi silinemedi")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Menü kalemi bulunamadı")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
