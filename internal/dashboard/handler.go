package dashboard

import (
	"time"

	"veresiye-backend/internal/auth"
	"veresiye-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecentOrder struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   string          `json:"order_date"`
}

type SummaryResponse struct {
	CustomerCount     int64           `json:"customer_count"`
	OrderCount        int64           `json:"order_count"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"` // açık veresiye bakiyelerinin toplamı
	RecentOrders      []RecentOrder   `json:"recent_orders"`
}

// GET /api/dashboard/summary
func SummaryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var resp SummaryResponse
		resp.TotalRevenue = decimal.Zero
		resp.OutstandingCredit = decimal.Zero

		db.Model(&models.Customer{}).Where("admin_id = ?", adminID).Count(&resp.CustomerCount)
		db.Model(&models.Order{}).Where("admin_id = ?", adminID).Count(&resp.OrderCount)

		var revenue decimal.NullDecimal
		db.Model(&models.Order{}).
			Where("admin_id = ? AND status = ?", adminID, models.OrderStatusCompleted).
			Select("SUM(total_amount)").Scan(&revenue)
		if revenue.Valid {
			resp.TotalRevenue = revenue.Decimal
		}

		var outstanding decimal.NullDecimal
		db.Model(&models.Customer{}).
			Where("admin_id = ?", adminID).
			Select("SUM(credit_balance)").Scan(&outstanding)
		if outstanding.Valid {
			resp.OutstandingCredit = outstanding.Decimal
		}

		var orders []models.Order
		db.Where("admin_id = ?", adminID).
			Order("created_at DESC").
			Limit(5).
			Find(&orders)
		resp.RecentOrders = make([]RecentOrder, 0, len(orders))
		for i := range orders {
			o := &orders[i]
			resp.RecentOrders = append(resp.RecentOrders, RecentOrder{
				ID:          o.ID,
				CustomerID:  o.CustomerID,
				Status:      string(o.Status),
				TotalAmount: o.TotalAmount,
				OrderDate:   o.OrderDate.Format(time.RFC3339),
			})
		}

		return c.JSON(resp)
	}
}
