package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
)

const envPrefix = "QUOTE"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the gorm/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DatabaseURL returns the URL form used by golang-migrate.
func (c DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds the draft store connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	DraftTTL time.Duration
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// EmailConfig holds the transactional email API settings.
type EmailConfig struct {
	APIURL        string
	APIKey        string
	SenderEmail   string
	SenderName    string
	BusinessEmail string
	Sandbox       bool
	Timeout       time.Duration
}

// CaptchaConfig holds the anti-automation verifier settings. An empty secret
// disables verification.
type CaptchaConfig struct {
	Secret    string
	VerifyURL string
	MinScore  float64
}

// RateLimitConfig limits quote submissions per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// ServiceConfig holds all configuration for the quote service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    DatabaseConfig
	RedisConfig RedisConfig
	KafkaConfig KafkaConfig
	EmailConfig EmailConfig
	Captcha     CaptchaConfig
	RateLimit   RateLimitConfig
	Pricing     booking.PricingConfig
	AdminAPIKey string
	CORSOrigins []string
}

// Load reads configuration from an optional .env file and QUOTE_* environment variables.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:   ":" + strings.TrimPrefix(v.GetString("SERVICE_PORT"), ":"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RedisConfig: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			DraftTTL: v.GetDuration("DRAFT_TTL"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		EmailConfig: EmailConfig{
			APIURL:        v.GetString("EMAIL_API_URL"),
			APIKey:        v.GetString("EMAIL_API_KEY"),
			SenderEmail:   v.GetString("EMAIL_SENDER"),
			SenderName:    v.GetString("EMAIL_SENDER_NAME"),
			BusinessEmail: v.GetString("EMAIL_BUSINESS_TO"),
			Sandbox:       v.GetBool("EMAIL_SANDBOX"),
			Timeout:       v.GetDuration("EMAIL_TIMEOUT"),
		},
		Captcha: CaptchaConfig{
			Secret:    v.GetString("CAPTCHA_SECRET"),
			VerifyURL: v.GetString("CAPTCHA_VERIFY_URL"),
			MinScore:  v.GetFloat64("CAPTCHA_MIN_SCORE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Pricing: booking.PricingConfig{
			ConservatorySurcharge: booking.MoneyFromPounds(v.GetFloat64("CONSERVATORY_SURCHARGE")),
			ExtensionSurcharge:    booking.MoneyFromPounds(v.GetFloat64("EXTENSION_SURCHARGE")),
		},
		AdminAPIKey: v.GetString("ADMIN_API_KEY"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "quotes")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DRAFT_TTL", "24h")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
	v.SetDefault("EMAIL_API_URL", "https://api.brevo.com/v3/smtp/email")
	v.SetDefault("EMAIL_SENDER_NAME", "Sparkle Window Cleaning")
	v.SetDefault("EMAIL_TIMEOUT", "10s")
	v.SetDefault("CAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("CAPTCHA_MIN_SCORE", 0.5)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 5)
	v.SetDefault("RATE_LIMIT_BURST", 3)
	v.SetDefault("CONSERVATORY_SURCHARGE", 5.0)
	v.SetDefault("EXTENSION_SURCHARGE", 5.0)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
}

func (c *ServiceConfig) validate() error {
	if c.AppEnv != "development" && c.AdminAPIKey == "" {
		return fmt.Errorf("%s_ADMIN_API_KEY is required outside development", envPrefix)
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("%s_RATE_LIMIT_PER_MINUTE must be positive", envPrefix)
	}
	if len(c.KafkaConfig.Brokers) == 0 {
		return fmt.Errorf("%s_KAFKA_BROKERS is required", envPrefix)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
