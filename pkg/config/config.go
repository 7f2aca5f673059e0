package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "VITRINE"

const (
	EnvAppEnv     = "VITRINE_APP_ENV"
	EnvRedisURL   = "VITRINE_REDIS_URL"
	EnvAPIBaseURL = "VITRINE_API_BASE_URL"

	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

type Config struct {
	App   AppConfig
	Redis RedisConfig
	API   APIConfig
}

func Load() (*Config, error) {
	// .env is a dev convenience; real deployments configure the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VITRINE_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"VITRINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITRINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"VITRINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VITRINE_REDIS_ADDR"`
	Password     string        `envconfig:"VITRINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITRINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITRINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITRINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITRINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITRINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITRINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// APIConfig points the cart collaborators at the storefront REST API.
// Every outbound call carries a bounded timeout; a timeout surfaces as a
// retryable network failure, never as a silent empty result.
type APIConfig struct {
	BaseURL        string        `envconfig:"VITRINE_API_BASE_URL" required:"true"`
	CartTimeout    time.Duration `envconfig:"VITRINE_API_CART_TIMEOUT" default:"10s"`
	CatalogTimeout time.Duration `envconfig:"VITRINE_API_CATALOG_TIMEOUT" default:"10s"`
	CouponTimeout  time.Duration `envconfig:"VITRINE_API_COUPON_TIMEOUT" default:"10s"`
}
