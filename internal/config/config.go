package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Browser  BrowserConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Schedule ScheduleConfig
	Backup   BackupConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	StartURL           string
	ConcurrentLimit    int
	MinDelay           time.Duration
	MaxDelay           time.Duration
	CatalogTimeout     time.Duration
	NavigationTimeout  time.Duration
	InteractionTimeout time.Duration
}

type BrowserConfig struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	TimezoneID     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ScheduleConfig struct {
	Hour     int
	Minute   int
	Timezone string
}

type BackupConfig struct {
	Dir string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Scraper: ScraperConfig{
			StartURL:           getEnvOrDefault("START_URL", "https://auto.ria.com/uk/car/used/"),
			ConcurrentLimit:    getIntOrDefault("SCRAPER_CONCURRENT_LIMIT", 3),
			MinDelay:           getDurationOrDefault("SCRAPER_MIN_DELAY", 3*time.Second),
			MaxDelay:           getDurationOrDefault("SCRAPER_MAX_DELAY", 7*time.Second),
			CatalogTimeout:     getDurationOrDefault("SCRAPER_CATALOG_TIMEOUT", 60*time.Second),
			NavigationTimeout:  getDurationOrDefault("SCRAPER_NAVIGATION_TIMEOUT", 45*time.Second),
			InteractionTimeout: getDurationOrDefault("SCRAPER_INTERACTION_TIMEOUT", 10*time.Second),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "uk-UA"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "Europe/Kyiv"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getIntOrDefault("POSTGRES_PORT", 5432),
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
			DBName:   getEnvOrDefault("POSTGRES_DB", "autoria"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Schedule: ScheduleConfig{
			Hour:     getIntOrDefault("RUN_TIME_HOUR", 12),
			Minute:   getIntOrDefault("RUN_TIME_MINUTE", 0),
			Timezone: getEnvOrDefault("RUN_TIMEZONE", "Europe/Kyiv"),
		},
		Backup: BackupConfig{
			Dir: getEnvOrDefault("BACKUP_DIR", "dumps"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.StartURL == "" {
		return fmt.Errorf("START_URL must not be empty")
	}

	if c.Scraper.ConcurrentLimit < 1 {
		return fmt.Errorf("SCRAPER_CONCURRENT_LIMIT must be at least 1")
	}

	if c.Scraper.MinDelay > c.Scraper.MaxDelay {
		return fmt.Errorf("SCRAPER_MIN_DELAY cannot be greater than SCRAPER_MAX_DELAY")
	}

	if c.Schedule.Hour < 0 || c.Schedule.Hour > 23 {
		return fmt.Errorf("RUN_TIME_HOUR must be between 0 and 23")
	}

	if c.Schedule.Minute < 0 || c.Schedule.Minute > 59 {
		return fmt.Errorf("RUN_TIME_MINUTE must be between 0 and 59")
	}

	return nil
}

// URL builds the connection string shared by the pgx pool and pg_dump.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
