package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Ledger   LedgerConfig
	Security SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// LedgerConfig holds Solana RPC configuration and transfer timing knobs
type LedgerConfig struct {
	RPCURL            string
	Commitment        string
	BroadcastAttempts int
	ConfirmPoll       time.Duration
	ConfirmTimeout    time.Duration
	RateCacheTTL      time.Duration
}

// SecurityConfig holds key-vault material
type SecurityConfig struct {
	VaultPassphrase string
	VaultSalt       string
	LockTTL         time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "brich"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Ledger: LedgerConfig{
			RPCURL:            getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
			Commitment:        getEnv("SOLANA_COMMITMENT", "confirmed"),
			BroadcastAttempts: getEnvAsInt("TRANSFER_BROADCAST_ATTEMPTS", 3),
			ConfirmPoll:       getEnvAsDuration("TRANSFER_CONFIRM_POLL", 2*time.Second),
			ConfirmTimeout:    getEnvAsDuration("TRANSFER_CONFIRM_TIMEOUT", 2*time.Minute),
			RateCacheTTL:      getEnvAsDuration("RATE_CACHE_TTL", time.Hour),
		},
		Security: SecurityConfig{
			VaultPassphrase: getEnv("VAULT_PASSPHRASE", "change-this-in-production"),
			VaultSalt:       getEnv("VAULT_SALT", "salt"),
			LockTTL:         getEnvAsDuration("TRANSFER_LOCK_TTL", 30*time.Second),
		},
	}
}

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
