package models

import "time"

// Admin: her admin kendi müşteri/menü/sipariş kümesinin sahibidir (tenant anahtarı).
type Admin struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
