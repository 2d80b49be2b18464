package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Database DatabaseConfig
	Auth     AuthConfig
	Tracing  TracingConfig
	Notify   NotifyConfig
	Document DocumentConfig
	Payment  PaymentConfig

	EstimateRateLimit int
	Bootstrap         BootstrapConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

type NotifyConfig struct {
	WebhookURL   string
	BatchSize    int
	PollInterval time.Duration
}

type DocumentConfig struct {
	VerifierURL   string
	VerifierKey   string
	MinConfidence float64
}

type PaymentConfig struct {
	ReturnURL         string
	EsewaMerchantCode string
	EsewaBaseURL      string
}

type BootstrapConfig struct {
	SeedDemoStaff bool
}

var ErrMissingJWTSecret = errors.New("missing_jwt_secret")

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getString("APP_NAME", "nea-connect"),
		AppVersion:  getString("APP_VERSION", "dev"),
		Environment: strings.ToLower(getString("APP_ENV", EnvDevelopment)),
		HTTPAddr:    getString("HTTP_ADDR", ":8080"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(getString("DB_DRIVER", "sqlite")),
			DSN:    getString("DB_DSN", "file:nea.db?cache=shared"),
		},
		Auth: AuthConfig{
			JWTSecret: getString("JWT_SECRET", ""),
			Issuer:    getString("JWT_ISSUER", "nea-connect"),
		},
		Tracing: TracingConfig{
			Enabled:       getBool("OTEL_ENABLED", false),
			Endpoint:      getString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Protocol:      getString("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio: getFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		Notify: NotifyConfig{
			WebhookURL:   getString("NOTIFY_WEBHOOK_URL", ""),
			BatchSize:    getInt("NOTIFY_BATCH_SIZE", 50),
			PollInterval: getDuration("NOTIFY_POLL_INTERVAL", 2*time.Second),
		},
		Document: DocumentConfig{
			VerifierURL:   getString("DOCUMENT_VERIFIER_URL", ""),
			VerifierKey:   getString("DOCUMENT_VERIFIER_KEY", ""),
			MinConfidence: getFloat("DOCUMENT_MIN_CONFIDENCE", 0.7),
		},
		Payment: PaymentConfig{
			ReturnURL:         getString("PAYMENT_RETURN_URL", "http://localhost:3000/payment-result"),
			EsewaMerchantCode: getString("ESEWA_MERCHANT_CODE", ""),
			EsewaBaseURL:      getString("ESEWA_BASE_URL", "https://rc-epay.esewa.com.np"),
		},
		EstimateRateLimit: getInt("ESTIMATE_RATE_LIMIT", 60),
		Bootstrap: BootstrapConfig{
			SeedDemoStaff: getBool("SEED_DEMO_STAFF", false),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, ErrMissingJWTSecret
		}
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getString(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
