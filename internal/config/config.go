package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/grievance"
)

// Snapshot source kinds.
const (
	SourceAPI  = "api"
	SourceSQL  = "sql"
	SourceFile = "file"
)

// HTTPConfig holds the dashboard API settings.
type HTTPConfig struct {
	Addr        string
	CORSOrigins []string
	RateLimit   float64 // requests per second per client, 0 disables
	RateBurst   int
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Portal grievance.Config

	// Snapshot source selection
	SnapshotSources []string
	SQLDriver       string
	SQLDSN          string
	SnapshotFile    string
	SnapshotMaxAge  time.Duration

	// Engine settings
	GazetteerPath string
	LabelTimezone *time.Location
	TopLocations  int

	HTTP HTTPConfig

	DataPath            string
	LogDir              string
	CacheDir            string
	EnableMermaidCharts bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	// 4. Typed values
	delayMs, err := getEnvInt("PORTAL_REQUEST_DELAY_MS", 500)
	if err != nil {
		return nil, err
	}
	maxAge, err := getEnvDuration("SNAPSHOT_MAX_AGE", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	topLocations, err := getEnvInt("TOP_LOCATIONS", 10)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvFloat("HTTP_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	tzName := getEnv("LABEL_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid LABEL_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &AppConfig{
		Portal: grievance.Config{
			BaseURL:      getEnv("PORTAL_API_URL", "http://localhost:5000/api"),
			UserID:       getEnv("PORTAL_USER_ID", ""),
			RequestDelay: time.Duration(delayMs) * time.Millisecond,
		},
		SnapshotSources: splitList(getEnv("SNAPSHOT_SOURCE", SourceAPI)),
		SQLDriver:       getEnv("SQL_DRIVER", "pgx"),
		SQLDSN:          getEnv("SQL_DSN", ""),
		SnapshotFile:    getEnv("SNAPSHOT_FILE", ""),
		SnapshotMaxAge:  maxAge,
		GazetteerPath:   getEnv("GAZETTEER_PATH", ""),
		LabelTimezone:   loc,
		TopLocations:    topLocations,
		HTTP: HTTPConfig{
			Addr:        getEnv("HTTP_ADDR", ":8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
			RateLimit:   rateLimit,
			RateBurst:   max(1, int(rateLimit)*2),
		},
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every selected snapshot source has what it needs.
func (c *AppConfig) Validate() error {
	if len(c.SnapshotSources) == 0 {
		return fmt.Errorf("SNAPSHOT_SOURCE must name at least one of api, sql, file")
	}
	for _, src := range c.SnapshotSources {
		switch src {
		case SourceAPI:
			if c.Portal.BaseURL == "" {
				return fmt.Errorf("PORTAL_API_URL is required for the api source")
			}
		case SourceSQL:
			if c.SQLDSN == "" {
				return fmt.Errorf("SQL_DSN is required for the sql source")
			}
			if c.SQLDriver != "pgx" && c.SQLDriver != "mysql" {
				return fmt.Errorf("SQL_DRIVER must be pgx or mysql, got %q", c.SQLDriver)
			}
		case SourceFile:
			if c.SnapshotFile == "" {
				return fmt.Errorf("SNAPSHOT_FILE is required for the file source")
			}
		default:
			return fmt.Errorf("unknown snapshot source %q", src)
		}
	}
	if c.TopLocations <= 0 {
		return fmt.Errorf("TOP_LOCATIONS must be positive, got %d", c.TopLocations)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
