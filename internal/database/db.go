package database

import (
	"fmt"

	"veresiye-backend/internal/config"
	"veresiye-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect veritabanına bağlanır ve şemayı hazırlar. Global tutulmaz; dönen
// handle açıkça servislere/handler'lara verilir.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Customer{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Transaction{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	return db, nil
}
