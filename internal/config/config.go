package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPort        = "8080"
	DefaultSessionTTL  = 7 * 24 * time.Hour
	DefaultRateLimit   = 100
	DefaultRateWindow  = time.Minute
	DefaultRatePrefix  = "streaks:ratelimit:"
	DefaultTimezone    = "UTC"
	DefaultFrontendURL = "http://localhost:3000"
	DefaultTokenIssuer = "kanso-streaks"
	DefaultDBMaxConns  = 25
)

var (
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")
	ErrInvalidTimezone      = errors.New("TIMEZONE is not a known IANA zone")
	ErrInvalidRateLimit     = errors.New("RATE_LIMIT cannot be negative")
	ErrInvalidRateWindow    = errors.New("RATE_LIMIT_WINDOW must be positive when rate limiting is on")
)

// Config is read from the environment. Keys are the plain variable names.
type Config struct {
	Port string `mapstructure:"PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	DBMaxConns int    `mapstructure:"DB_MAX_CONNS"`

	RedisHost       string        `mapstructure:"REDIS_HOST"`
	RedisPort       string        `mapstructure:"REDIS_PORT"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	RedisEnabled    bool          `mapstructure:"REDIS_ENABLED"`
	RateLimit       int           `mapstructure:"RATE_LIMIT"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	RateLimitPrefix string        `mapstructure:"RATE_LIMIT_PREFIX"`

	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	TokenIssuer    string        `mapstructure:"TOKEN_ISSUER"`
	SecureCookies  bool          `mapstructure:"SECURE_COOKIES"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendURL        string `mapstructure:"FRONTEND_URL"`

	Timezone string `mapstructure:"TIMEZONE"`
}

// Load reads envFile when it exists (variables already set win), then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	v := viper.New()
	applyDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Every key needs a default, even an empty one, or AutomaticEnv never sees it during Unmarshal.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("PORT", DefaultPort)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "kanso_user")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "kanso_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", DefaultDBMaxConns)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("RATE_LIMIT", DefaultRateLimit)
	v.SetDefault("RATE_LIMIT_WINDOW", DefaultRateWindow)
	v.SetDefault("RATE_LIMIT_PREFIX", DefaultRatePrefix)

	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", DefaultSessionTTL)
	v.SetDefault("TOKEN_ISSUER", DefaultTokenIssuer)
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback")
	v.SetDefault("FRONTEND_URL", DefaultFrontendURL)

	v.SetDefault("TIMEZONE", DefaultTimezone)
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.SessionSecret) == "" {
		errs = append(errs, ErrMissingSessionSecret)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Timezone))
	}
	if c.RateLimit < 0 {
		errs = append(errs, ErrInvalidRateLimit)
	}
	if c.RateLimit > 0 && c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidRateWindow, c.RateLimitWindow))
	}

	return errors.Join(errs...)
}

// Location is the zone that decides what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// Origins lists the CORS origins: ALLOWED_ORIGINS when set, else the frontend's origin.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) > 0 {
		return out
	}

	u, err := url.Parse(c.FrontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return []string{u.Scheme + "://" + u.Host}
}
