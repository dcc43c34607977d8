package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Mail     MailConfig     `yaml:"mail"`
	Site     SiteConfig     `yaml:"site"`
	Media    MediaConfig    `yaml:"media"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RatePerMinute   int           `yaml:"rate_per_minute"  env:"SERVER_RATE_PER_MINUTE"  env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// AuthConfig holds JWT and refresh token settings.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"        env-required:"true"`
	JWTIssuer       string        `yaml:"jwt_issuer"        env:"AUTH_JWT_ISSUER"        env-default:"mitrafire-cms"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"  env:"AUTH_ACCESS_TOKEN_TTL"  env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"AUTH_REFRESH_TOKEN_TTL" env-default:"720h"`
}

// CacheConfig holds content cache policy settings.
// Freshness is how long an entry is served without revalidation; Retention is
// how long a stale entry may still be served while a refresh runs.
type CacheConfig struct {
	Freshness     time.Duration `yaml:"freshness"      env:"CACHE_FRESHNESS"      env-default:"5m"`
	Retention     time.Duration `yaml:"retention"      env:"CACHE_RETENTION"      env-default:"5m"`
	MaxEntries    int           `yaml:"max_entries"    env:"CACHE_MAX_ENTRIES"    env-default:"1024"`
	SweepSchedule string        `yaml:"sweep_schedule" env:"CACHE_SWEEP_SCHEDULE" env-default:"@every 1m"`
}

// MailConfig holds SMTP relay settings for the contact form.
// All fields are optional at startup; sending fails with a descriptive error
// when the block is incomplete.
type MailConfig struct {
	SMTPHost string `yaml:"smtp_host" env:"MAIL_SMTP_HOST"`
	SMTPPort int    `yaml:"smtp_port" env:"MAIL_SMTP_PORT" env-default:"587"`
	Username string `yaml:"username"  env:"MAIL_USERNAME"`
	Password string `yaml:"password"  env:"MAIL_PASSWORD"`
	From     string `yaml:"from"      env:"MAIL_FROM"`
	To       string `yaml:"to"        env:"MAIL_TO"`
}

// Configured reports whether the mail relay has everything it needs to send.
func (c MailConfig) Configured() bool {
	return c.SMTPHost != "" && c.From != "" && c.To != ""
}

// SiteConfig holds public site settings used by the sitemap and content API.
type SiteConfig struct {
	BaseURL         string `yaml:"base_url"         env:"SITE_BASE_URL"         env-default:"https://www.mitrafire.co.id"`
	DefaultLanguage string `yaml:"default_language" env:"SITE_DEFAULT_LANGUAGE" env-default:"en"`
}

// MediaConfig holds upload storage settings.
type MediaConfig struct {
	Dir           string `yaml:"dir"             env:"MEDIA_DIR"             env-default:"./media"`
	MaxUploadMB   int    `yaml:"max_upload_mb"   env:"MEDIA_MAX_UPLOAD_MB"   env-default:"10"`
	PublicPrefix  string `yaml:"public_prefix"   env:"MEDIA_PUBLIC_PREFIX"   env-default:"/media"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
