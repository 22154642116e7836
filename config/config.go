package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatasetPath        string
	RawCSVPath         string
	TaggedCSVPath      string
	DistrictCountsPath string
	DistrictRulesPath  string

	DebounceMs int
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ScrapeQuery    string
	ScrollRounds   int
	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	ChromeBin      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		DatasetPath:        getEnv("DATASET_PATH", "./data/flowerstores.json"),
		RawCSVPath:         getEnv("RAW_CSV_PATH", "./data/google-FlowerStore.csv"),
		TaggedCSVPath:      getEnv("TAGGED_CSV_PATH", "./output/flowerstores-tagged.csv"),
		DistrictCountsPath: getEnv("DISTRICT_COUNTS_PATH", "./output/district-counts.json"),
		DistrictRulesPath:  getEnv("DISTRICT_RULES_PATH", ""),

		DebounceMs: getEnvInt("DEBOUNCE_MS", 250),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "flowers"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "flowers123"),
		PostgresDB:       getEnv("POSTGRES_DB", "flower_directory"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ScrapeQuery:    getEnv("SCRAPE_QUERY", "板橋 花店"),
		ScrollRounds:   getEnvInt("SCROLL_ROUNDS", 10),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		ChromeBin:      getEnv("CHROME_BIN", ""),
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

// DebounceDelay returns the keyword/watch debounce interval.
func (c *Config) DebounceDelay() time.Duration {
	if c.DebounceMs < 0 {
		return 0
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
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
