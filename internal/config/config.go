package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported persistence backends.
const (
	DriverMongo    = "mongo"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env        string `env:"ENV" envDefault:"development"`
	ServerPort string `env:"SERVER_PORT" envDefault:"5000"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver      string `env:"DB_DRIVER" envDefault:"mongo"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"devcamper"`
	SQLDSN        string `env:"SQL_DSN" envDefault:"user:password@tcp(localhost:3306)/devcamper?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `env:"REDIS_ADDR"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret       string        `env:"JWT_SECRET" envDefault:"change-me"`
	JWTExpire       time.Duration `env:"JWT_EXPIRE" envDefault:"720h"`
	JWTCookieExpire int           `env:"JWT_COOKIE_EXPIRE" envDefault:"30"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
	// ResetURL is the public base of mailed password reset links.
	ResetURL string `env:"RESET_URL" envDefault:"http://localhost:5000/api/v1/auth/resetpassword"`

	EventsDriver string   `env:"EVENTS_DRIVER"`
	NATSURL      string   `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"devcamper-events"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" envDefault:"10"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// SMTPConfig configures the password reset mailer. An empty Host disables delivery.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"noreply@devcamper.io"`
}

// Load reads an optional .env file and builds Config from the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// a missing dotenv file is not an error, the environment may already be populated
		_ = godotenv.Load(f)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// CookieTTL is the lifetime of the token cookie.
func (c *Config) CookieTTL() time.Duration {
	return time.Duration(c.JWTCookieExpire) * 24 * time.Hour
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverMongo, DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.EventsDriver {
	case "", "nats", "kafka":
	default:
		return fmt.Errorf("unsupported EVENTS_DRIVER %q", c.EventsDriver)
	}
	if u, err := url.Parse(c.ResetURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("RESET_URL must be an absolute http(s) URL")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("JWT_EXPIRE must be positive")
	}
	return nil
}
