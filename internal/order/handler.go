package order

import (
	"time"

	"veresiye-backend/internal/auth"
	"veresiye-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateOrderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID    string                   `json:"customer_id"`
	PaymentMethod string                   `json:"payment_method"`
	Items         []CreateOrderItemRequest `json:"items"`
	Tax           decimal.Decimal          `json:"tax"`
	Notes         string                   `json:"notes"`
}

type OrderItemResponse struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerID    string              `json:"customer_id"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Tax           decimal.Decimal     `json:"tax"`
	Notes         string              `json:"notes"`
	OrderDate     string              `json:"order_date"`
	Items         []OrderItemResponse `json:"items"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:         it.ID,
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Subtotal:   it.Subtotal,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		Tax:           o.Tax,
		Notes:         o.Notes,
		OrderDate:     o.OrderDate.Format(time.RFC3339),
		Items:         items,
	}
}

// POST /api/orders
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.CustomerID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "customer_id zorunlu")
		}
		if body.PaymentMethod == "" {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method zorunlu")
		}

		in := CreateInput{
			CustomerID:    body.CustomerID,
			PaymentMethod: body.PaymentMethod,
			Tax:           body.Tax,
			Notes:         body.Notes,
		}
		for _, it := range body.Items {
			in.Items = append(in.Items, CreateItemInput{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
		}

		o, err := svc.Create(adminID, in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(o))
	}
}

// GET /api/orders?status=...
func ListOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		query := db.Preload("Items").Where("admin_id = ?", adminID).Order("order_date DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var o models.Order
		if err := db.Preload("Items").
			First(&o, "id = ? AND admin_id = ?", c.Params("id"), adminID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		return c.JSON(toOrderResponse(&o))
	}
}

// POST /api/orders/:id/start | /complete | /cancel
func ActionHandler(svc *Service, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		o, err := svc.Transition(c.Params("id"), adminID, action)
		if err != nil {
			return err
		}
		return c.JSON(toOrderResponse(o))
	}
}

// DELETE /api/orders/:id
func DeleteOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		if err := svc.Delete(c.Params("id"), adminID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
