package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Sipariş olayı yayını. Boş bırakılan hedef devre dışı kalır.
	KafkaBrokers      string // virgülle ayrılmış
	KafkaOrderTopic   string
	RedisAddr         string
	RedisOrderChannel string

	// CREDIT siparişi iptalinde borcun geri alınıp alınmayacağı.
	// Ürün tarafı netleşene kadar varsayılan: kapalı (borç silinmez).
	ReverseChargeOnCancel bool
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:           getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=veresiye port=5432 sslmode=disable"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		CORSOrigins:           getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		KafkaBrokers:          getEnv("KAFKA_BROKERS", ""),
		KafkaOrderTopic:       getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisOrderChannel:     getEnv("REDIS_ORDER_CHANNEL", "order-events"),
		ReverseChargeOnCancel: getEnv("REVERSE_CHARGE_ON_CANCEL", "false") == "true",
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=veresiye port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.KafkaBrokers == "" {
		log.Println("[WARN] KAFKA_BROKERS tanımlı değil, sipariş olayları Kafka'ya yayınlanmayacak.")
	}
	if cfg.RedisAddr == "" {
		log.Println("[WARN] REDIS_ADDR tanımlı değil, sipariş olayları Redis kanalına yayınlanmayacak.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
