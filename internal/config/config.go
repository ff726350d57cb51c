package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "default-secret-key-change-in-production"

type Config struct {
	StorageDriver string
	DBUrl         string
	Port          string
	LogLevel      string

	JWTSecret        string
	JWTSecretDefault bool
	JWTTTL           time.Duration
	BcryptCost       int

	RateLimitRPS   float64
	RateLimitBurst int

	RevealRoleMismatch     bool
	AllowAdminSelfRegister bool
	CORSAllowedOrigins     []string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using environment and defaults")
	}

	secret := os.Getenv("JWT_SECRET")
	secretDefault := secret == ""
	if secretDefault {
		secret = defaultJWTSecret
	}

	return Config{
		StorageDriver:          getEnv("STORAGE_DRIVER", "mysql"),
		DBUrl:                  withParseTime(os.Getenv("DB_URL")),
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		JWTSecret:              secret,
		JWTSecretDefault:       secretDefault,
		JWTTTL:                 getDuration("JWT_TTL", 10*time.Hour),
		BcryptCost:             getInt("BCRYPT_COST", 10),
		RateLimitRPS:           getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:         getInt("RATE_LIMIT_BURST", 20),
		RevealRoleMismatch:     getBool("AUTH_REVEAL_ROLE_MISMATCH", false),
		AllowAdminSelfRegister: getBool("ALLOW_ADMIN_SELF_REGISTER", true),
		CORSAllowedOrigins:     getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// withParseTime makes the mysql driver scan DATETIME columns into time.Time.
func withParseTime(dsn string) string {
	if dsn == "" || strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
