package main

import (
	"errors"
	"log"
	"strings"

	"veresiye-backend/internal/auth"
	"veresiye-backend/internal/config"
	"veresiye-backend/internal/customer"
	"veresiye-backend/internal/dashboard"
	"veresiye-backend/internal/database"
	"veresiye-backend/internal/events"
	"veresiye-backend/internal/ledger"
	"veresiye-backend/internal/menu"
	"veresiye-backend/internal/order"
	"veresiye-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// İş kurallarından gelen tipli hataları HTTP koduna çevirir. Ledger ve sipariş
// hataları asla genel 500 olarak dönmez; arayüz ayırt edilebilir mesaj alır.
func httpStatus(err error) int {
	var obErr *ledger.OutstandingBalanceError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, order.ErrInvalidTransition),
		errors.As(err, &obErr):
		return fiber.StatusConflict
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrCreditLimitExceeded),
		errors.Is(err, ledger.ErrNoOutstandingBalance),
		errors.Is(err, ledger.ErrAmountExceedsBalance),
		errors.Is(err, ledger.ErrLimitBelowBalance),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	}
	return 0
}

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	st := store.NewGorm(db)
	locks := ledger.NewLocks()
	ledgerSvc := ledger.NewService(st, locks)

	var targets []events.Publisher
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		targets = append(targets, events.NewKafka(brokers, cfg.KafkaOrderTopic))
	}
	if cfg.RedisAddr != "" {
		targets = append(targets, events.NewRedis(cfg.RedisAddr, cfg.RedisOrderChannel))
	}
	publisher := events.NewFanout(targets...)

	orderSvc := order.NewService(st, locks, publisher, cfg.ReverseChargeOnCancel)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			if code := httpStatus(err); code != 0 {
				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Müşteri yönetimi
	protected.Post("/customers", customer.CreateCustomerHandler(db))
	protected.Get("/customers", customer.ListCustomersHandler(db))
	protected.Get("/customers/:id", customer.GetCustomerHandler(db))
	protected.Put("/customers/:id", customer.UpdateCustomerHandler(db, ledgerSvc))
	protected.Delete("/customers/:id", customer.DeleteCustomerHandler(ledgerSvc))
	protected.Post("/customers/:id/settle", customer.SettleBalanceHandler(ledgerSvc))
	protected.Get("/customers/:id/transactions", customer.ListCustomerTransactionsHandler(db))
	protected.Get("/transactions", customer.ListTransactionsHandler(db))

	// Menü yönetimi
	protected.Post("/menu-items", menu.CreateMenuItemHandler(db))
	protected.Get("/menu-items", menu.ListMenuItemsHandler(db))
	protected.Get("/menu-items/:id", menu.GetMenuItemHandler(db))
	protected.Put("/menu-items/:id", menu.UpdateMenuItemHandler(db))
	protected.Delete("/menu-items/:id", menu.DeleteMenuItemHandler(db))

	// Siparişler
	protected.Post("/orders", order.CreateOrderHandler(orderSvc))
	protected.Get("/orders", order.ListOrdersHandler(db))
	protected.Get("/orders/:id", order.GetOrderHandler(db))
	protected.Post("/orders/:id/start", order.ActionHandler(orderSvc, order.ActionStart))
	protected.Post("/orders/:id/complete", order.ActionHandler(orderSvc, order.ActionComplete))
	protected.Post("/orders/:id/cancel", order.ActionHandler(orderSvc, order.ActionCancel))
	protected.Delete("/orders/:id", order.DeleteOrderHandler(orderSvc))

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler(db))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
