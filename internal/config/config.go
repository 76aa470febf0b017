package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	S3        S3Config
	Messaging MessagingConfig
	AI        AIConfig
	Payment   PaymentConfig
	SMTP      SMTPConfig
	Confirm   SMTPConfig
	Alert     AlertConfig
	Sentry    SentryConfig
	Queue     QueueConfig
	App       AppConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host             string
	Port             string
	User             string
	Password         string
	DBName           string
	SSLMode          string
	MaxConns         int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	StatementTimeout time.Duration
}

// RedisConfig holds Redis configuration. SessionDB backs C1/C2 (hot path:
// sessions, rate limits, caches); QueueDB backs C4's lists/hashes so a queue
// backlog can never starve session traffic out of connection pool headroom.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	SessionDB int
	QueueDB   int
}

// JWTConfig holds JWT configuration for the admin console (§4.12)
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// S3Config holds S3 storage configuration
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// MessagingConfig holds the WhatsApp-style messaging gateway configuration (C5)
type MessagingConfig struct {
	APIKey          string
	BaseURL         string
	Number          string
	WebhookSecret   string
	TypingDelayBase time.Duration
}

// AIConfig holds both AI provider configurations (C6/C8)
type AIConfig struct {
	PrimaryBaseURL     string
	PrimaryAPIKey      string
	PrimaryModel       string
	FallbackAPIKey     string
	FallbackModel      string
	IntentTimeout      time.Duration
	CoverLetterTimeout time.Duration
	ScoringTimeout     time.Duration
}

// PaymentConfig holds payment-provider configuration (C10). Tiers maps a
// payment reference prefix to the application quota it unlocks, so amounts
// are never hard-coded in the routing logic.
type PaymentConfig struct {
	Secret        string
	Public        string
	WebhookURL    string
	VerifyURL     string
	SignatureHead string
	Tiers         map[string]int
}

// SMTPConfig holds one named SMTP identity (recruiter or confirmation)
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Pass     string
	FromName string
	FromAddr string
}

// AlertConfig holds the operator alert-notification channel configuration
type AlertConfig struct {
	ResendAPIKey string
	AdminEmail   string
	FromAddr     string
}

// SentryConfig holds error-reporting configuration
type SentryConfig struct {
	DSN string
}

// QueueConfig holds C4's shared queue settings; the concurrency, retry and
// timeout values are defaults that queue.RegisterHandler can override per
// queue.
type QueueConfig struct {
	Concurrency       int
	MaxRetries        int
	JobTimeout        time.Duration
	StalledInterval   time.Duration
	StalledThreshold  time.Duration
	ResultTTL         time.Duration
}

// AppConfig holds miscellaneous application-wide settings
type AppConfig struct {
	BaseURL    string
	IPSalt     string
	UploadsDir string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:             getEnv("DB_HOST", "localhost"),
			Port:             getEnv("DB_PORT", "5432"),
			User:             getEnv("DB_USER", "jobbroker"),
			Password:         getEnv("DB_PASSWORD", "jobbroker"),
			DBName:           getEnv("DB_NAME", "jobbroker"),
			SSLMode:          getEnv("DB_SSL_MODE", "disable"),
			MaxConns:         getEnvAsInt("DB_MAX_CONNS", 100),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			SessionDB: getEnvAsInt("REDIS_SESSION_DB", 0),
			QueueDB:   getEnvAsInt("REDIS_QUEUE_DB", 1),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "eu-central"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Messaging: MessagingConfig{
			APIKey:          getEnv("MESSAGING_API_KEY", ""),
			BaseURL:         getEnv("MESSAGING_BASE_URL", "https://api.ycloud.com"),
			Number:          getEnv("MESSAGING_NUMBER", ""),
			WebhookSecret:   getEnv("MESSAGING_WEBHOOK_SECRET", ""),
			TypingDelayBase: getEnvAsDuration("MESSAGING_TYPING_DELAY_BASE", 400*time.Millisecond),
		},
		AI: AIConfig{
			PrimaryBaseURL:     getEnv("AI_PRIMARY_BASE_URL", "https://api.openai.com/v1"),
			PrimaryAPIKey:      getEnv("AI_PRIMARY_API_KEY", ""),
			PrimaryModel:       getEnv("AI_PRIMARY_MODEL", "gpt-4o-mini"),
			FallbackAPIKey:     getEnv("AI_FALLBACK_API_KEY", ""),
			FallbackModel:      getEnv("AI_FALLBACK_MODEL", "claude-3-5-haiku-latest"),
			IntentTimeout:      getEnvAsDuration("AI_INTENT_TIMEOUT", 20*time.Second),
			CoverLetterTimeout: getEnvAsDuration("AI_COVER_LETTER_TIMEOUT", 45*time.Second),
			ScoringTimeout:     getEnvAsDuration("AI_SCORING_TIMEOUT", 45*time.Second),
		},
		Payment: PaymentConfig{
			Secret:        getEnv("PAYMENT_SECRET", ""),
			Public:        getEnv("PAYMENT_PUBLIC", ""),
			WebhookURL:    getEnv("PAYMENT_WEBHOOK_URL", ""),
			VerifyURL:     getEnv("PAYMENT_VERIFY_URL", "https://api.paystack.co/transaction/verify"),
			SignatureHead: getEnv("PAYMENT_SIGNATURE_HEADER", "X-Paystack-Signature"),
			Tiers: map[string]int{
				"BASIC": getEnvAsInt("PAYMENT_TIER_BASIC_QUOTA", 10),
				"PLUS":  getEnvAsInt("PAYMENT_TIER_PLUS_QUOTA", 30),
				"UNLIM": getEnvAsInt("PAYMENT_TIER_UNLIMITED_QUOTA", 1000),
			},
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     getEnv("SMTP_USER", ""),
			Pass:     getEnv("SMTP_PASS", ""),
			FromName: getEnv("SMTP_FROM_NAME", "SmartCVNaija Recruiting"),
			FromAddr: getEnv("SMTP_FROM_ADDR", "recruit@smartcvnaija.com"),
		},
		Confirm: SMTPConfig{
			Host:     getEnv("CONFIRMATION_SMTP_HOST", ""),
			Port:     getEnv("CONFIRMATION_SMTP_PORT", "587"),
			User:     getEnv("CONFIRMATION_SMTP_USER", ""),
			Pass:     getEnv("CONFIRMATION_SMTP_PASS", ""),
			FromName: getEnv("CONFIRMATION_SMTP_FROM_NAME", "SmartCVNaija"),
			FromAddr: getEnv("CONFIRMATION_SMTP_FROM_ADDR", "noreply@smartcvnaija.com"),
		},
		Alert: AlertConfig{
			ResendAPIKey: getEnv("ALERT_RESEND_API_KEY", ""),
			AdminEmail:   getEnv("ADMIN_EMAIL", ""),
			FromAddr:     getEnv("ALERT_FROM_ADDR", "alerts@smartcvnaija.com"),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
		Queue: QueueConfig{
			Concurrency:      getEnvAsInt("QUEUE_CONCURRENCY", 4),
			MaxRetries:       getEnvAsInt("QUEUE_MAX_RETRIES", 3),
			JobTimeout:       getEnvAsDuration("QUEUE_JOB_TIMEOUT", 2*time.Minute),
			StalledInterval:  getEnvAsDuration("QUEUE_STALLED_INTERVAL", 30*time.Second),
			StalledThreshold: getEnvAsDuration("QUEUE_STALLED_THRESHOLD", 3*time.Minute),
			ResultTTL:        getEnvAsDuration("QUEUE_RESULT_TTL", 10*time.Minute),
		},
		App: AppConfig{
			BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
			IPSalt:     getEnv("IP_SALT", ""),
			UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
		},
	}

	// Validate required fields
	if cfg.JWT.AccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.JWT.RefreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	if cfg.Messaging.APIKey == "" {
		return nil, fmt.Errorf("MESSAGING_API_KEY is required")
	}
	if cfg.Payment.Secret == "" {
		return nil, fmt.Errorf("PAYMENT_SECRET is required")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr is the one Redis host:port used by both the session and queue
// clients; the split is logical (separate DB indexes / client instances),
// not a separate server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
