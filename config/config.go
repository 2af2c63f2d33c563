package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	MaxSearchURLs  int

	CSVOutputPath   string
	ExcelOutputPath string
	ChromeBin       string

	// Tracker app API. Empty AppURL disables posting and the remote
	// criteria override.
	AppURL          string
	ScrapeAPISecret string

	// Local criteria override file. Empty means built-in defaults unless
	// the tracker API supplies an override.
	CriteriaPath string

	// Digest email delivery.
	SendDigest   bool
	SMTPHost     string
	SMTPPort     int
	SMTPAddress  string
	SMTPPassword string
	DigestTo     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dealhunter"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dealhunter123"),
		PostgresDB:       getEnv("POSTGRES_DB", "deals_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MaxSearchURLs:  getEnvInt("MAX_SEARCH_URLS", 20),

		CSVOutputPath:   getEnv("CSV_OUTPUT_PATH", "./output/raw_fragments.csv"),
		ExcelOutputPath: getEnv("EXCEL_OUTPUT_PATH", "./output/deal_hunter_tracker.xlsx"),
		ChromeBin:       getEnv("CHROME_BIN", ""),

		AppURL:          getEnv("APP_URL", ""),
		ScrapeAPISecret: getEnv("SCRAPE_API_SECRET", ""),

		CriteriaPath: getEnv("CRITERIA_PATH", ""),

		SendDigest:   getEnvBool("SEND_DIGEST", false),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPAddress:  getEnv("SMTP_ADDRESS", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		DigestTo:     getEnv("DIGEST_TO", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
