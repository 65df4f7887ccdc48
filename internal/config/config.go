package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort              string // Application port
	DBUser               string // Database user
	DBPassword           string // Database password
	DBHost               string // Database host
	DBPort               string // Database port
	DBName               string // Database name
	JWTSecret            string // JWT secret key
	RedisAddr            string // Redis server address
	RedisPass            string // Redis password
	RedisDB              int    // Redis database number
	IsProd               bool   // Is production environment
	LogLevel             string // logrus level name
	ConflictRetries      int    // Extra attempts after a wallet write conflict
	AllowNegativeBalance bool   // Let admin adjustments overdraw a wallet
	CacheTTLSeconds      int    // Lifetime of cached read responses
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:              getEnv("APP_PORT", "8080"),
		DBUser:               os.Getenv("DB_USER"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBHost:               getEnv("DB_HOST", "127.0.0.1"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBName:               os.Getenv("DB_NAME"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPass:            os.Getenv("REDIS_PASS"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		IsProd:               os.Getenv("IS_PROD") == "true",
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ConflictRetries:      getEnvInt("CONFLICT_RETRIES", 3),
		AllowNegativeBalance: os.Getenv("ALLOW_NEGATIVE_BALANCE") == "true",
		CacheTTLSeconds:      getEnvInt("CACHE_TTL_SECONDS", 60),
	}
}

// getEnv returns the variable or def when unset
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt parses the variable as an int, falling back to def
func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
