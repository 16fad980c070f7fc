package config

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	NATS    NATSConfig
	Company CompanyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=quotation_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type NATSConfig struct {
	URL string `env:"NATS_URL, default=nats://localhost:4222"`
}

// CompanyConfig is the issuer identity stamped onto rendered documents.
type CompanyConfig struct {
	Name      string `env:"COMPANY_NAME,    default=BizQuote"`
	Address   string `env:"COMPANY_ADDRESS"`
	Email     string `env:"COMPANY_EMAIL"`
	Phone     string `env:"COMPANY_PHONE"`
	GSTNumber string `env:"COMPANY_GST_NUMBER"`
	PSTNumber string `env:"COMPANY_PST_NUMBER"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(log zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	return &cfg
}
