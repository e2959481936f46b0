package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Delivery DeliveryConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type TelegramConfig struct {
	Token       string // token for the notification bot (order cards for couriers/admin)
	AdminChatID int64
}

type DeliveryConfig struct {
	BaseFee           float64 // platform delivery: flat part of the fee
	PerKmFee          float64 // platform delivery: per-kilometre part
	CourierRadiusKm   float64 // how far a courier can see available pickups
	ServiceFeePercent float64 // default marketplace commission for new companies
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	adminChat, _ := strconv.ParseInt(getEnv("ADMIN_CHAT_ID", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "chegoou"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("NOTIFY_TOKEN", ""),
			AdminChatID: adminChat,
		},
		Delivery: DeliveryConfig{
			BaseFee:           getEnvFloat("DELIVERY_BASE_FEE", 5.00),
			PerKmFee:          getEnvFloat("DELIVERY_PER_KM_FEE", 1.50),
			CourierRadiusKm:   getEnvFloat("COURIER_RADIUS_KM", 15),
			ServiceFeePercent: getEnvFloat("SERVICE_FEE_PERCENT", 10),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
