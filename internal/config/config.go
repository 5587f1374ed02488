package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	JWTSecret string
	JWTExpiry time.Duration

	AdminPhone           string
	AdminPassword        string
	AdminName            string
	DefaultResetPassword string
}

// Load reads configuration from the environment, loading a .env file first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "family_account"),
		DBPath:     getEnv("DB_PATH", "./data/family_account.db"),

		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),

		AdminPhone:           getEnv("ADMIN_PHONE", "admin"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", "336699"),
		AdminName:            getEnv("ADMIN_NAME", "系统管理员"),
		DefaultResetPassword: getEnv("DEFAULT_RESET_PASSWORD", "123456"),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.DBDriver {
	case "mysql", "postgres":
		if c.DBHost == "" || c.DBName == "" {
			problems = append(problems, fmt.Sprintf("DB_HOST and DB_NAME are required for driver %q", c.DBDriver))
		}
	case "sqlite":
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH is required for driver \"sqlite\"")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported DB_DRIVER %q: must be mysql, postgres or sqlite", c.DBDriver))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET cannot be empty")
	}
	if c.JWTExpiry <= 0 {
		problems = append(problems, "JWT_EXPIRY must be positive")
	}
	if c.AdminPhone == "" || c.AdminPassword == "" {
		problems = append(problems, "ADMIN_PHONE and ADMIN_PASSWORD cannot be empty")
	}
	if c.DefaultResetPassword == "" {
		problems = append(problems, "DEFAULT_RESET_PASSWORD cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
