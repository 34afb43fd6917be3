package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	Storage   StorageConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
	Review    ReviewConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is honored.
	// Empty trusts none, so client IPs come from the direct peer.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ReplyTo     string `mapstructure:"reply_to"`
	Conference  string `mapstructure:"conference"`
	ContactURL  string `mapstructure:"contact_url"`
}

// StorageConfig holds object storage settings for final uploads.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig holds the fixed-window limits for auth endpoints.
type RateLimitConfig struct {
	Prefix      string        `mapstructure:"prefix"`
	LoginLimit  int           `mapstructure:"login_limit"`
	LoginWindow time.Duration `mapstructure:"login_window"`
}

// NotifyConfig holds notification dispatch settings.
type NotifyConfig struct {
	Mode        string        `mapstructure:"mode"`
	Delay       time.Duration `mapstructure:"delay"`
	MaxDetached int           `mapstructure:"max_detached"`
	MaxPending  int           `mapstructure:"max_pending"`
}

// Notification modes.
const (
	NotifyModeOff    = "off"
	NotifyModeAwait  = "await"
	NotifyModeDetach = "detach"
)

// ReviewConfig holds review workflow settings.
type ReviewConfig struct {
	MaxBulkSize int `mapstructure:"max_bulk_size"`
}

// Load reads configuration from environment variables with the ABSTRACTS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ABSTRACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.trusted_proxies", "")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "abstracts")
	v.SetDefault("db.password", "abstracts_secret")
	v.SetDefault("db.name", "abstracts_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 20)
	v.SetDefault("db.max_idle", 5)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "24h")
	v.SetDefault("jwt.issuer", "abstractdesk")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@example.org")
	v.SetDefault("email.from_name", "Scientific Review Committee")
	v.SetDefault("email.reply_to", "")
	v.SetDefault("email.conference", "APBMT 2025")
	v.SetDefault("email.contact_url", "http://localhost:3000")

	// Storage defaults
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.region", "ap-south-1")
	v.SetDefault("storage.bucket", "abstracts-final-uploads")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.max_file_size_mb", 10)
	v.SetDefault("storage.presign_expiry", 3600)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ratelimit.prefix", "abstracts:ratelimit")
	v.SetDefault("ratelimit.login_limit", 10)
	v.SetDefault("ratelimit.login_window", "1m")

	// Notification defaults
	v.SetDefault("notify.mode", NotifyModeOff)
	v.SetDefault("notify.delay", "500ms")
	v.SetDefault("notify.max_detached", 2)
	v.SetDefault("notify.max_pending", 32)

	v.SetDefault("review.max_bulk_size", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "ABSTRACTS_SERVER_PORT",
		"server.read_timeout":      "ABSTRACTS_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "ABSTRACTS_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":  "ABSTRACTS_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":       "ABSTRACTS_SERVER_ENVIRONMENT",
		"server.trusted_proxies":   "ABSTRACTS_SERVER_TRUSTED_PROXIES",
		"db.host":                  "ABSTRACTS_DB_HOST",
		"db.port":                  "ABSTRACTS_DB_PORT",
		"db.user":                  "ABSTRACTS_DB_USER",
		"db.password":              "ABSTRACTS_DB_PASSWORD",
		"db.name":                  "ABSTRACTS_DB_NAME",
		"db.sslmode":               "ABSTRACTS_DB_SSLMODE",
		"db.max_open":              "ABSTRACTS_DB_MAX_OPEN",
		"db.max_idle":              "ABSTRACTS_DB_MAX_IDLE",
		"jwt.secret":               "ABSTRACTS_JWT_SECRET",
		"jwt.access_expiry":        "ABSTRACTS_JWT_ACCESS_EXPIRY",
		"jwt.issuer":               "ABSTRACTS_JWT_ISSUER",
		"log.level":                "ABSTRACTS_LOG_LEVEL",
		"log.format":               "ABSTRACTS_LOG_FORMAT",
		"cors.allowed_origins":     "ABSTRACTS_CORS_ALLOWED_ORIGINS",
		"email.provider":           "ABSTRACTS_EMAIL_PROVIDER",
		"email.region":             "ABSTRACTS_EMAIL_REGION",
		"email.from_address":       "ABSTRACTS_EMAIL_FROM_ADDRESS",
		"email.from_name":          "ABSTRACTS_EMAIL_FROM_NAME",
		"email.reply_to":           "ABSTRACTS_EMAIL_REPLY_TO",
		"email.conference":         "ABSTRACTS_EMAIL_CONFERENCE",
		"email.contact_url":        "ABSTRACTS_EMAIL_CONTACT_URL",
		"storage.provider":         "ABSTRACTS_STORAGE_PROVIDER",
		"storage.region":           "ABSTRACTS_STORAGE_REGION",
		"storage.bucket":           "ABSTRACTS_STORAGE_BUCKET",
		"storage.endpoint":         "ABSTRACTS_STORAGE_ENDPOINT",
		"storage.access_key":       "ABSTRACTS_STORAGE_ACCESS_KEY",
		"storage.secret_key":       "ABSTRACTS_STORAGE_SECRET_KEY",
		"storage.use_ssl":          "ABSTRACTS_STORAGE_USE_SSL",
		"storage.max_file_size_mb": "ABSTRACTS_STORAGE_MAX_FILE_SIZE_MB",
		"storage.presign_expiry":   "ABSTRACTS_STORAGE_PRESIGN_EXPIRY",
		"redis.addr":               "ABSTRACTS_REDIS_ADDR",
		"redis.password":           "ABSTRACTS_REDIS_PASSWORD",
		"redis.db":                 "ABSTRACTS_REDIS_DB",
		"ratelimit.prefix":         "ABSTRACTS_RATELIMIT_PREFIX",
		"ratelimit.login_limit":    "ABSTRACTS_RATELIMIT_LOGIN_LIMIT",
		"ratelimit.login_window":   "ABSTRACTS_RATELIMIT_LOGIN_WINDOW",
		"notify.mode":              "ABSTRACTS_NOTIFY_MODE",
		"notify.delay":             "ABSTRACTS_NOTIFY_DELAY",
		"notify.max_detached":      "ABSTRACTS_NOTIFY_MAX_DETACHED",
		"notify.max_pending":       "ABSTRACTS_NOTIFY_MAX_PENDING",
		"review.max_bulk_size":     "ABSTRACTS_REVIEW_MAX_BULK_SIZE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if ABSTRACTS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ABSTRACTS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
		TrustedProxies:  splitList(v.GetString("server.trusted_proxies")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("cors.allowed_origins"))}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ReplyTo:     v.GetString("email.reply_to"),
		Conference:  v.GetString("email.conference"),
		ContactURL:  v.GetString("email.contact_url"),
	}
	cfg.Storage = StorageConfig{
		Provider:      v.GetString("storage.provider"),
		Region:        v.GetString("storage.region"),
		Bucket:        v.GetString("storage.bucket"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		UseSSL:        v.GetBool("storage.use_ssl"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.RateLimit = RateLimitConfig{
		Prefix:      v.GetString("ratelimit.prefix"),
		LoginLimit:  v.GetInt("ratelimit.login_limit"),
		LoginWindow: v.GetDuration("ratelimit.login_window"),
	}
	cfg.Notify = NotifyConfig{
		Mode:        strings.ToLower(strings.TrimSpace(v.GetString("notify.mode"))),
		Delay:       v.GetDuration("notify.delay"),
		MaxDetached: v.GetInt("notify.max_detached"),
		MaxPending:  v.GetInt("notify.max_pending"),
	}
	cfg.Review = ReviewConfig{
		MaxBulkSize: v.GetInt("review.max_bulk_size"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Notify.Mode {
	case NotifyModeOff, NotifyModeAwait, NotifyModeDetach:
	default:
		return fmt.Errorf("invalid notify.mode %q: must be off, await, or detach", c.Notify.Mode)
	}
	if c.Notify.Delay < 0 {
		return fmt.Errorf("notify.delay must not be negative")
	}
	if c.Notify.MaxDetached < 1 {
		c.Notify.MaxDetached = 1
	}
	if c.Notify.MaxPending < c.Notify.MaxDetached {
		c.Notify.MaxPending = c.Notify.MaxDetached
	}
	if c.Review.MaxBulkSize < 1 {
		return fmt.Errorf("review.max_bulk_size must be positive")
	}
	return nil
}

// splitList parses a comma-separated setting, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
