package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Pricing  PricingConfig
	Wallet   WalletConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// PricingConfig holds fare, commission and savings rate configuration.
// Monetary values are in the smallest currency unit; rates are plain
// percentages (5 means 5%).
type PricingConfig struct {
	BaseFare          int64
	DistanceRate      int64 // per kilometer
	TimeRate          int64 // per minute
	CommissionRate    int   // percent of fare
	BreakFeePercent   int   // early savings withdrawal penalty
	MinSavePercentage int
	DailyBonusRides   int
	BonusAmount       int64 // initial value; runtime value lives in platform_settings
}

// WalletConfig holds wallet limits and the platform account identity.
type WalletConfig struct {
	MinWithdrawal      int64
	MaxWithdrawal      int64
	AdminAccountNumber string
}

// SaveDurations is the fixed set of allowed Drive & Save durations in days.
var SaveDurations = []int{7, 30, 365}

// ValidSaveDuration reports whether days is one of the allowed durations.
func ValidSaveDuration(days int) bool {
	for _, d := range SaveDurations {
		if d == days {
			return true
		}
	}
	return false
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taxifi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "taxifi-backend"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Pricing: PricingConfig{
			BaseFare:          getInt64Env("BASE_FARE", 500),
			DistanceRate:      getInt64Env("DISTANCE_RATE", 100),
			TimeRate:          getInt64Env("TIME_RATE", 10),
			CommissionRate:    getIntEnv("COMMISSION_RATE", 5),
			BreakFeePercent:   getIntEnv("SAVE_BREAK_FEE", 5),
			MinSavePercentage: getIntEnv("MIN_SAVE_PERCENTAGE", 5),
			DailyBonusRides:   getIntEnv("DAILY_BONUS_RIDES", 5),
			BonusAmount:       getInt64Env("BONUS_AMOUNT", 200),
		},
		Wallet: WalletConfig{
			MinWithdrawal:      getInt64Env("MIN_WITHDRAWAL", 1000),
			MaxWithdrawal:      getInt64Env("MAX_WITHDRAWAL", 100000),
			AdminAccountNumber: getEnv("ADMIN_WALLET_ACCOUNT", "9000000001"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
