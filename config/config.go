package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Env string

const (
	Dev        Env = "development"
	Test       Env = "test"
	Preview    Env = "preview"
	Production Env = "production"
)

type Config struct {
	AppName string
	ENV     Env `validate:"oneof=development test preview production"`
	AppPort int `validate:"min=1,max=65535"`

	LogLevel string

	// CORSAllowedOrigins extends the origins allowed to call the JSON API.
	CORSAllowedOrigins []string

	// SecretsFile is the TOML store holding ANTHROPIC_API_KEY.
	SecretsFile string `validate:"required"`

	// AnthropicBaseURL overrides the Messages API endpoint (proxies, tests).
	AnthropicBaseURL string `validate:"omitempty,url"`

	// Postgres (optional; enabled only when DBHost + DBName are set).
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int `validate:"min=1,max=65535"`
	DBName     string

	// Turso remote sqlite (optional; enabled when DSN or Path is set).
	Turso TursoConfig

	// SQLitePath is a local sqlite file used for probe history when neither
	// Postgres nor Turso is configured.
	SQLitePath string

	// Redis (optional; enabled only when RedisHost is set).
	RedisUser     string
	RedisPassword string
	RedisHost     string
	RedisPort     int    `validate:"min=1,max=65535"`
	RedisScheme   string `validate:"oneof=redis rediss"`

	ProbeLockTTL time.Duration `validate:"gt=0"`

	RabbitMQ RabbitMQConfig
}

type TursoConfig struct {
	DSN   string
	Path  string
	Token string
}

type RabbitMQConfig struct {
	URL        string
	Exchange   string
	RoutingKey string `validate:"required_with=URL"`
	// DeclareTopology declares Exchange (topic, durable) before the first publish.
	DeclareTopology bool
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "keydoctor")
	v.SetDefault("APP_ENV", string(Dev))
	v.SetDefault("APP_PORT", 8501)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SECRETS_FILE", DefaultSecretsFile)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")
	v.SetDefault("PROBE_LOCK_TTL", "2m")

	v.SetDefault("RABBITMQ_EXCHANGE", "keydoctor")
	v.SetDefault("RABBITMQ_ROUTING_KEY", "probe.completed")
	v.SetDefault("RABBITMQ_DECLARE_TOPOLOGY", true)

	return v
}

func NewConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName: v.GetString("APP_NAME"),
		ENV:     Env(strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		SecretsFile:      strings.TrimSpace(v.GetString("SECRETS_FILE")),
		AnthropicBaseURL: strings.TrimSpace(v.GetString("ANTHROPIC_BASE_URL")),

		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetInt("DB_PORT"),
		DBName:     v.GetString("DB_NAME"),

		Turso: TursoConfig{
			DSN:   v.GetString("TURSO_SQLITE_DSN"),
			Path:  v.GetString("TURSO_SQLITE_PATH"),
			Token: v.GetString("TURSO_SQLITE_TOKEN"),
		},
		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisUser:     v.GetString("REDIS_USER"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisScheme:   strings.ToLower(strings.TrimSpace(v.GetString("REDIS_SCHEME"))),

		ProbeLockTTL: v.GetDuration("PROBE_LOCK_TTL"),

		RabbitMQ: RabbitMQConfig{
			URL:        strings.TrimSpace(v.GetString("RABBITMQ_URL")),
			Exchange:   v.GetString("RABBITMQ_EXCHANGE"),
			RoutingKey: v.GetString("RABBITMQ_ROUTING_KEY"),

			DeclareTopology: v.GetBool("RABBITMQ_DECLARE_TOPOLOGY"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
