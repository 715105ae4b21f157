// Package config loads application configuration from a YAML file and
// environment variables. Priority: ENV > YAML > defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"BLOCKRENT_ADDR"    env-default:":8080"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"REQUEST_TIMEOUT"   env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"  env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN          string        `yaml:"dsn"            env:"DATABASE_DSN"            env-required:"true"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime"  env:"DATABASE_CONN_LIFETIME"  env-default:"1h"`
	Migrate      bool          `yaml:"migrate"        env:"DATABASE_MIGRATE"        env-default:"true"`
}

// RedisConfig holds optional Redis settings for the token revocation list.
// An empty URL leaves the in-memory revocation list in place.
type RedisConfig struct {
	URL          string        `yaml:"url"            env:"REDIS_URL"`
	PoolSize     int           `yaml:"pool_size"      env:"REDIS_POOL_SIZE"      env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout"   env:"REDIS_DIAL_TIMEOUT"   env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout"   env:"REDIS_READ_TIMEOUT"   env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout"  env:"REDIS_WRITE_TIMEOUT"  env-default:"3s"`
}

// AuthConfig holds token issuing settings.
type AuthConfig struct {
	JWTSigningKey  string        `yaml:"jwt_signing_key"  env:"JWT_SIGNING_KEY"  env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"JWT_ISSUER"       env-default:"blockrent"`
	JWTAudience    string        `yaml:"jwt_audience"     env:"JWT_AUDIENCE"     env-default:"blockrent-api"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"1h"`
}

// MailConfig holds outbound notification settings. With an empty host the
// dispatcher falls back to the log sender, which only records deliveries.
type MailConfig struct {
	SMTPHost     string `yaml:"smtp_host"     env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port"     env:"SMTP_PORT"     env-default:"587"`
	SMTPUser     string `yaml:"smtp_user"     env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	From         string `yaml:"from"          env:"MAIL_FROM"     env-default:"no-reply@blockrent.example"`
	PortalHost   string `yaml:"portal_host"   env:"PORTAL_HOST"   env-default:"localhost:8080"`
	QueueSize    int    `yaml:"queue_size"    env:"MAIL_QUEUE_SIZE" env-default:"128"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from CONFIG_PATH (fallback "./config.yaml") plus
// the environment. A missing default file is not an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	return &cfg, nil
}
