package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the box office
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Seat holds and order persistence
	Reservation ReservationConfig

	// Checkout journey
	Checkout CheckoutConfig

	// Ticket pricing
	Pricing PricingConfig

	// QR and signed ticket payloads
	Tickets TicketsConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel string

	// External services
	Kafka KafkaConfig
	Email EmailConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

// ReservationConfig holds hold and order store settings
type ReservationConfig struct {
	HoldTTL             time.Duration
	PrimaryStoreTimeout time.Duration
	HoldSweepInterval   time.Duration
	FallbackOrderTTL    time.Duration
}

// CheckoutConfig holds checkout flow settings
type CheckoutConfig struct {
	Timeout           time.Duration
	TokenizationDelay time.Duration
	SessionTTL        time.Duration
}

// PricingConfig holds group discount and fee settings
type PricingConfig struct {
	GroupDiscountThreshold int
	GroupDiscountRate      float64
	ServiceFeeRate         float64
}

// TicketsConfig holds ticket rendering settings
type TicketsConfig struct {
	SigningSecret string
	QRSize        int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled          bool          `json:"enabled"`
	WindowDuration   time.Duration `json:"window_duration"`
	DefaultRequests  int           `json:"default_requests"`
	PublicRequests   int           `json:"public_requests"`
	HoldRequests     int           `json:"hold_requests"`
	OrderRequests    int           `json:"order_requests"`
	CheckoutRequests int           `json:"checkout_requests"`
	HealthRequests   int           `json:"health_requests"`
	WhitelistedIPs   []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds order event publishing configuration
type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	OrderTopic string
}

// EmailConfig holds email configuration
type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		// Database configuration
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("DB_ENABLED", true),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "circustix_db"),
			User:     getEnv("DB_USER", "circustix_user"),
			Password: getEnv("DB_PASSWORD", "circustix_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		// Redis configuration
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		Reservation: ReservationConfig{
			HoldTTL:             getDurationEnv("HOLD_TTL", 5*time.Minute),
			PrimaryStoreTimeout: getDurationEnv("PRIMARY_STORE_TIMEOUT", 3*time.Second),
			HoldSweepInterval:   getDurationEnv("HOLD_SWEEP_INTERVAL", time.Minute),
			FallbackOrderTTL:    getDurationEnv("FALLBACK_ORDER_TTL", 0),
		},

		Checkout: CheckoutConfig{
			Timeout:           getDurationEnv("CHECKOUT_TIMEOUT", 15*time.Second),
			TokenizationDelay: getDurationEnv("TOKENIZATION_DELAY", 2*time.Second),
			SessionTTL:        getDurationEnv("SESSION_TTL", 30*time.Minute),
		},

		Pricing: PricingConfig{
			GroupDiscountThreshold: getIntEnv("GROUP_DISCOUNT_THRESHOLD", 4),
			GroupDiscountRate:      getFloatEnv("GROUP_DISCOUNT_RATE", 0.20),
			ServiceFeeRate:         getFloatEnv("SERVICE_FEE_RATE", 0.05),
		},

		Tickets: TicketsConfig{
			SigningSecret: getEnv("TICKET_SIGNING_SECRET", ""),
			QRSize:        getIntEnv("QR_SIZE", 300),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:          getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:   getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:  getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:   getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 200),
			HoldRequests:     getIntEnv("RATE_LIMIT_HOLD_REQUESTS", 20),
			OrderRequests:    getIntEnv("RATE_LIMIT_ORDER_REQUESTS", 10),
			CheckoutRequests: getIntEnv("RATE_LIMIT_CHECKOUT_REQUESTS", 120),
			HealthRequests:   getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 300),
			WhitelistedIPs:   getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Kafka: KafkaConfig{
			Enabled:    getBoolEnv("KAFKA_ENABLED", false),
			Brokers:    getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "orders.confirmed"),
		},

		// Email configuration
		Email: EmailConfig{
			Enabled:      getBoolEnv("EMAIL_ENABLED", false),
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "tickets@circustix.local"),
			FromName:     getEnv("FROM_NAME", "Big Top Box Office"),
		},
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getFloatEnv gets a float environment variable with a fallback value
func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
