package config

import (
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/config"
)

// ServiceConfig holds all configuration for the pet hotel service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	DBConfig      config.DatabaseConfig
	JWTConfig     config.JWTConfig
	KafkaConfig   config.KafkaConfig
	RedisConfig   config.RedisConfig
	MigrationsDir string

	PaymentDir   string
	RoomPhotoDir string

	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads configuration from config.yaml and PETHOTEL_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("PETHOTEL")
	if err != nil {
		return nil, err
	}

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("DB_NAME", "pethotel")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("PAYMENT_DIR", "uploads/payment")
	v.SetDefault("ROOM_PHOTO_DIR", "uploads/rooms")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	return &ServiceConfig{
		Port:               config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:             config.GetAppEnv(v),
		DBConfig:           config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:          config.LoadJWTConfig(v),
		KafkaConfig:        config.LoadKafkaConfig(v),
		RedisConfig:        config.LoadRedisConfig(v),
		MigrationsDir:      v.GetString("MIGRATIONS_DIR"),
		PaymentDir:         v.GetString("PAYMENT_DIR"),
		RoomPhotoDir:       v.GetString("ROOM_PHOTO_DIR"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
	}, nil
}

// IsDevelopment reports whether the service runs with development settings.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "" || c.AppEnv == "development"
}
