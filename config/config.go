package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                   = "3001"
	DefaultDBDriver               = "sqlite"
	DefaultDBPath                 = "./data/database.db"
	DefaultDBSchema               = "smart_accounting_receipt_manager"
	DefaultDBMaxConns             = 10
	DefaultDBQueryTimeoutSec      = 10
	DefaultAccessTokenExpiryMin   = 15
	DefaultRefreshTokenExpiryMin  = 10080
	DefaultMaxActiveRefreshTokens = 10
	DefaultTokenCleanupSchedule   = "@every 1h"
	DefaultFrontendURL            = "http://localhost:3000"
	DefaultBodyLimitMB            = 50
	DefaultGeminiModel            = "gemini-3-flash-preview"
	DefaultAIMaxRetries           = 3
	DefaultAIRetryDelaySec        = 5
	DefaultLogLevel               = "INFO"
)

type Config struct {
	Env  string
	Port string

	DBDriver          string
	DBURL             string
	DBPath            string
	DBSchema          string
	DBMaxConns        int
	DBQueryTimeoutSec int

	AccessTokenSecret      string
	RefreshTokenSecret     string
	AccessExpiryMin        int
	RefreshExpiryMin       int
	MaxActiveRefreshTokens int
	TokenCleanupSchedule   string

	FrontendURL string
	BodyLimitMB int
	RedisURL    string

	GeminiAPIKey    string
	GeminiModel     string
	AIMaxRetries    int
	AIRetryDelaySec int

	AdminUsername string
	AdminPassword string

	LogLevel      string
	LogFilename   string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads config/.env.dev or config/.env.prod (picked by ENV) and the process
// environment. Values present in the environment win over the file.
func Load() *Config {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	loadEnvFile(env)

	cfg := &Config{
		Env:  env,
		Port: getEnv("PORT", DefaultPort),

		DBDriver:          getEnv("DB_DRIVER", DefaultDBDriver),
		DBPath:            getEnv("DB_PATH", DefaultDBPath),
		DBSchema:          getEnv("DB_SCHEMA", DefaultDBSchema),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBQueryTimeoutSec: getEnvAsInt("DB_QUERY_TIMEOUT_SEC", DefaultDBQueryTimeoutSec),

		AccessTokenSecret:      mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:     mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:        getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:       getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		MaxActiveRefreshTokens: getEnvAsInt("MAX_ACTIVE_REFRESH_TOKENS", DefaultMaxActiveRefreshTokens),
		TokenCleanupSchedule:   getEnv("TOKEN_CLEANUP_SCHEDULE", DefaultTokenCleanupSchedule),

		FrontendURL: getEnv("FRONTEND_URL", DefaultFrontendURL),
		BodyLimitMB: getEnvAsInt("BODY_LIMIT_MB", DefaultBodyLimitMB),
		RedisURL:    getEnv("REDIS_URL", ""),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModel:     getEnv("GEMINI_MODEL", DefaultGeminiModel),
		AIMaxRetries:    getEnvAsInt("AI_MAX_RETRIES", DefaultAIMaxRetries),
		AIRetryDelaySec: getEnvAsInt("AI_RETRY_DELAY_SEC", DefaultAIRetryDelaySec),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFilename:   getEnv("LOG_FILENAME", ""),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvAsBool("LOG_COMPRESS", true),
	}

	if cfg.DBDriver == "postgres" {
		cfg.DBURL = mustGetEnv("DB_URL")
	} else {
		cfg.DBURL = getEnv("DB_URL", "")
	}

	return cfg
}

// fileEnv holds the values read from the env file of the last Load call.
var fileEnv = map[string]string{}

func loadEnvFile(env string) {
	fileEnv = map[string]string{}

	name := ".env.dev"
	if env == "production" {
		name = ".env.prod"
	}
	path := filepath.Join("config", name)
	if _, err := os.Stat(path); err != nil {
		return
	}
	values, err := godotenv.Read(path)
	if err != nil {
		log.Printf("Failed to read %s: %v", path, err)
		return
	}
	fileEnv = values
}

func lookupEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fileEnv[key]
}

func getEnv(key string, defaultVal string) string {
	if value := lookupEnv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := lookupEnv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := lookupEnv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := lookupEnv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}
