package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port    string
	Env     string
	Storage string

	JWTSecret string
	TokenTTL  time.Duration

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	FeedLimit        int
	ProfilePostLimit int
	TrendSampleSize  int
	TrendTopK        int
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

// Load читает .env (если есть) и переменные окружения.
// storage - режим хранилища из флага запуска
func Load(storage string) (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		Storage:          storage,
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenTTL:         getEnvDuration("TOKEN_TTL", 72*time.Hour),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBName:           getEnv("DB_NAME", "pulse"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		FeedLimit:        getEnvInt("FEED_LIMIT", 20),
		ProfilePostLimit: getEnvInt("PROFILE_POST_LIMIT", 10),
		TrendSampleSize:  getEnvInt("TREND_SAMPLE_SIZE", 5),
		TrendTopK:        getEnvInt("TREND_TOP_K", 5),
	}

	// дев-секрет допустим только для in-memory режима вне продакшена
	if cfg.JWTSecret == "" && !cfg.IsProduction() && !cfg.IsPersistent() {
		log.Println("JWT_SECRET is not set, using development secret")
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsPersistent() && c.JWTSecret == devJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set explicitly for %s storage", c.Storage)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	limits := map[string]int{
		"FEED_LIMIT":         c.FeedLimit,
		"PROFILE_POST_LIMIT": c.ProfilePostLimit,
		"TREND_SAMPLE_SIZE":  c.TrendSampleSize,
		"TREND_TOP_K":        c.TrendTopK,
	}
	for name, value := range limits {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, value)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsPersistent() bool {
	return c.Storage == StoragePostgres
}

// PostgresDSN собирает строку подключения для gorm postgres диалекта
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
