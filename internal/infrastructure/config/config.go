package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:5173"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	OpenAI OpenAIConfig
}

// AuthConfig holds the signing secrets and lifetimes for the two token
// classes. The secrets must differ; business logic receives this struct
// explicitly and never reads the environment itself.
type AuthConfig struct {
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=planner"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type OpenAIConfig struct {
	APIKey    string  `env:"OPENAI_API_KEY"`
	BaseURL   string  `env:"OPENAI_BASE_URL, default=https://api.openai.com/v1"`
	Model     string  `env:"OPENAI_MODEL,    default=gpt-3.5-turbo"`
	MaxTokens int     `env:"OPENAI_MAX_TOKENS,   default=1000"`
	Temp      float64 `env:"OPENAI_TEMPERATURE,  default=0.7"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsProduction reports whether secure cookie attributes should be enforced.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
