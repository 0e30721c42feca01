package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds environment driven configuration values.
// Credentials should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort            string
	BasePath           string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	// Redis response cache
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	CacheTTLSec   int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Generated CSV/XLSX files
	StorageBackend string
	StorageDir     string
	S3Bucket       string
	S3Prefix       string
	S3Region       string
	// Counts that only exist as scanned documents
	StaticPDFBaseURL string
}

var cfg AppConfig
var loaded bool
var configFile = filepath.Join("config", "config.json")

// SetFile changes the location of the JSON config file. It must be called before Load.
func SetFile(path string) {
	if path != "" {
		configFile = path
	}
}

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config file -> defaults -> environment variable overrides
	if err := loadFileConfig(configFile, &cfg); err != nil {
		log.Fatalf("invalid config file %s: %v", configFile, err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Used by tests and the CLI.
func Set(c AppConfig) {
	cfg = c
	loaded = true
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadFileConfig reads the grouped JSON config into out if the file exists.
// A missing file is not an error; malformed content is.
func loadFileConfig(path string, out *AppConfig) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil
		}
		return err
	}

	out.AppPort = v.GetString("app.AppPort")
	out.BasePath = v.GetString("app.BasePath")
	out.RateLimitPerMinute = v.GetInt("app.RateLimitPerMinute")
	out.AllowedOrigins = v.GetStringSlice("app.AllowedOrigins")
	out.StaticPDFBaseURL = v.GetString("app.StaticPDFBaseURL")

	out.GinMode = v.GetString("gin.Mode")
	out.GinPath = v.GetString("gin.LogPath")

	out.DBDriver = v.GetString("database.Driver")
	out.DatabaseURI = v.GetString("database.DatabaseURI")
	out.DBHost = v.GetString("database.DBHost")
	out.DBPort = v.GetString("database.DBPort")
	out.DBUser = v.GetString("database.DBUser")
	out.DBPassword = v.GetString("database.DBPassword")
	out.DBName = v.GetString("database.DBName")
	out.DBSSLMode = v.GetString("database.DBSSLMode")

	out.RedisHost = v.GetString("redis.RedisHost")
	out.RedisPort = v.GetInt("redis.RedisPort")
	out.RedisDB = v.GetInt("redis.RedisDB")
	out.RedisPassword = v.GetString("redis.RedisPassword")
	out.CacheTTLSec = v.GetInt("redis.CacheTTLSec")

	out.LogLevel = v.GetString("log.Level")
	out.LogPath = v.GetString("log.Path")
	out.LogMaxSizeMB = v.GetInt("log.MaxSizeMB")
	out.LogMaxBackups = v.GetInt("log.MaxBackups")
	out.LogMaxAgeDays = v.GetInt("log.MaxAgeDays")
	out.LogCompress = v.GetBool("log.Compress")

	out.StorageBackend = v.GetString("storage.Backend")
	out.StorageDir = v.GetString("storage.Dir")
	out.S3Bucket = v.GetString("storage.S3Bucket")
	out.S3Prefix = v.GetString("storage.S3Prefix")
	out.S3Region = v.GetString("storage.S3Region")

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.BasePath == "" {
		c.BasePath = "/api/traffic-counts/v1"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = "postgres"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		if c.DBDriver == "mysql" {
			c.DBPort = "3306"
		} else {
			c.DBPort = "5432"
		}
	}
	if c.DBName == "" {
		c.DBName = "dvrpctc"
	}
	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CacheTTLSec == 0 {
		c.CacheTTLSec = 600
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.StorageBackend == "" {
		c.StorageBackend = "dir"
	}
	if c.StorageDir == "" {
		c.StorageDir = "csv"
	}
	if c.StaticPDFBaseURL == "" {
		c.StaticPDFBaseURL = "https://idnryib36jqh.objectstorage.us-ashburn-1.oci.customer-oci.com/p/CRSJ63CubnhBU9YppzcOZJuiALo2cVZsKVCBEEc_zt2UkPrQJaVId3Q5G2iQfiMB/n/idnryib36jqh/b/web-static-content/o/TrafficCountPDF"
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("BASE_PATH", ""); v != "" {
		c.BasePath = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("STATIC_PDF_BASE_URL", ""); v != "" {
		c.StaticPDFBaseURL = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("DB_SSLMODE", ""); v != "" {
		c.DBSSLMode = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("CACHE_TTL_SEC", ""); v != "" {
		c.CacheTTLSec = mustParseInt(v)
	}
	// Logging env overrides
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	// Storage env overrides
	if v := getEnv("STORAGE_BACKEND", ""); v != "" {
		c.StorageBackend = strings.ToLower(v)
	}
	if v := getEnv("STORAGE_DIR", ""); v != "" {
		c.StorageDir = v
	}
	if v := getEnv("S3_BUCKET", ""); v != "" {
		c.S3Bucket = v
	}
	if v := getEnv("S3_PREFIX", ""); v != "" {
		c.S3Prefix = v
	}
	if v := getEnv("S3_REGION", ""); v != "" {
		c.S3Region = v
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
