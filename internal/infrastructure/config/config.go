package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Registry RegistryConfig
	Session  SessionConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type RegistryConfig struct {
	BaseURL string        `env:"REGISTRY_API_URL, default=http://localhost:5000/api"`
	Timeout time.Duration `env:"REGISTRY_TIMEOUT, default=15s"`
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET"`
	CookieName string        `env:"SESSION_COOKIE,  default=cml_session"`
	TTL        time.Duration `env:"SESSION_TTL,     default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=member_registry_gateway"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Production reports whether the gateway runs in a production environment,
// which switches logs to JSON and marks cookies Secure.
func (c *Config) Production() bool {
	return c.Env == "production"
}
