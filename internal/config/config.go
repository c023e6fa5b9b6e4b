// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Supabase    SupabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Payment     PaymentConfig
	Email       EmailConfig
	Gemini      GeminiConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// SupabaseConfig holds the project coordinates. Storage is reached through
// the S3-compatible endpoint under <URL>/storage/v1/s3.
type SupabaseConfig struct {
	URL               string
	AnonKey           string
	ServiceRoleKey    string
	StorageBucket     string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

type RedisConfig struct {
	URL string
}

type PaymentConfig struct {
	RazorpayKeyID      string
	RazorpayKeySecret  string
	StripeSecretKey    string
	PlatformFeePercent float64
	DefaultCurrency    string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

const defaultJWTSecret = "anarchybay-dev-secret-change-me"

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			URL:          getEnv("SUPABASE_DB_URL", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		Supabase: SupabaseConfig{
			URL:               strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			AnonKey:           getEnv("SUPABASE_ANON_KEY", ""),
			ServiceRoleKey:    getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			StorageBucket:     getEnv("SUPABASE_STORAGE_BUCKET", "products"),
			S3AccessKeyID:     getEnv("SUPABASE_S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: getEnv("SUPABASE_S3_SECRET_ACCESS_KEY", ""),
			S3Region:          getEnv("SUPABASE_S3_REGION", "ap-south-1"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Payment: PaymentConfig{
			RazorpayKeyID:      getEnv("RAZORPAY_KEY_ID", ""),
			RazorpayKeySecret:  getEnv("RAZORPAY_KEY_SECRET", ""),
			StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
			PlatformFeePercent: getEnvAsFloat("PLATFORM_FEE_PERCENT", 5.0),
			DefaultCurrency:    strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASS", ""),
			FromEmail:    getEnv("SMTP_FROM", getEnv("SMTP_USER", "")),
			FromName:     getEnv("SMTP_FROM_NAME", "Anarchy Bay"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Frontend: FrontendConfig{
			BaseURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		},
	}

	return config, config.Validate()
}

// Validate reports every missing required variable at once.
func (c *Config) Validate() error {
	required := map[string]string{
		"SUPABASE_URL":    c.Supabase.URL,
		"SUPABASE_DB_URL": c.Database.URL,
		"SMTP_HOST":       c.Email.SMTPHost,
		"SMTP_USER":       c.Email.SMTPUsername,
		"SMTP_PASS":       c.Email.SMTPPassword,
	}

	var missing []string
	for _, key := range []string{"SUPABASE_URL", "SUPABASE_DB_URL", "SMTP_HOST", "SMTP_USER", "SMTP_PASS"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.JWT.SecretKey == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	if c.Payment.PlatformFeePercent < 0 || c.Payment.PlatformFeePercent > 100 {
		return fmt.Errorf("PLATFORM_FEE_PERCENT must be between 0 and 100")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) RazorpayEnabled() bool {
	return c.Payment.RazorpayKeyID != "" && c.Payment.RazorpayKeySecret != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
