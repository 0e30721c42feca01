package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "/api/traffic-counts/v1", c.BasePath)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, "dir", c.StorageBackend)
	assert.Equal(t, "csv", c.StorageDir)
	assert.Equal(t, 600, c.CacheTTLSec)
	assert.True(t, strings.HasSuffix(c.StaticPDFBaseURL, "/TrafficCountPDF"))
}

func TestApplyDefaultsMySQLPort(t *testing.T) {
	c := AppConfig{DBDriver: "mysql"}
	applyDefaults(&c)
	assert.Equal(t, "3306", c.DBPort)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CACHE_TTL_SEC", "30")
	t.Setenv("STORAGE_BACKEND", "S3")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 30, c.CacheTTLSec)
	assert.Equal(t, "s3", c.StorageBackend)
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"app": {"AppPort": "7000", "AllowedOrigins": ["https://www.dvrpc.org"]},
		"database": {"Driver": "mysql", "DBHost": "db.internal", "DBName": "tc"},
		"redis": {"CacheTTLSec": 60},
		"storage": {"Backend": "s3", "S3Bucket": "counts"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var c AppConfig
	require.NoError(t, loadFileConfig(path, &c))

	assert.Equal(t, "7000", c.AppPort)
	assert.Equal(t, []string{"https://www.dvrpc.org"}, c.AllowedOrigins)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "db.internal", c.DBHost)
	assert.Equal(t, "tc", c.DBName)
	assert.Equal(t, 60, c.CacheTTLSec)
	assert.Equal(t, "s3", c.StorageBackend)
	assert.Equal(t, "counts", c.S3Bucket)
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	var c AppConfig
	err := loadFileConfig(filepath.Join(t.TempDir(), "absent.json"), &c)
	assert.NoError(t, err)
	assert.Empty(t, c.AppPort)
}

func TestLoadFileConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app": `), 0o644))

	var c AppConfig
	assert.Error(t, loadFileConfig(path, &c))
}

func TestDSN(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		c := AppConfig{DBDriver: "postgres", DBHost: "localhost", DBPort: "5432", DBUser: "tc", DBPassword: "secret", DBName: "dvrpctc", DBSSLMode: "disable"}
		assert.Equal(t, "host=localhost port=5432 user=tc password=secret dbname=dvrpctc sslmode=disable", c.DSN())
	})

	t.Run("mysql", func(t *testing.T) {
		c := AppConfig{DBDriver: "mysql", DBHost: "localhost", DBPort: "3306", DBUser: "tc", DBPassword: "secret", DBName: "dvrpctc"}
		assert.Equal(t, "tc:secret@tcp(localhost:3306)/dvrpctc?charset=utf8mb4&parseTime=True&loc=UTC", c.DSN())
	})

	t.Run("explicit uri wins", func(t *testing.T) {
		c := AppConfig{DBDriver: "postgres", DatabaseURI: "postgres://u@h/db", DBHost: "ignored"}
		assert.Equal(t, "postgres://u@h/db", c.DSN())
	})
}

func TestDialectorUnsupported(t *testing.T) {
	_, err := AppConfig{DBDriver: "oracle"}.Dialector()
	assert.Error(t, err)
}

func TestToGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, toGormLogLevel("debug"))
	assert.Equal(t, logger.Warn, toGormLogLevel("info"))
	assert.Equal(t, logger.Error, toGormLogLevel("error"))
	assert.Equal(t, logger.Silent, toGormLogLevel("silent"))
	assert.Equal(t, logger.Warn, toGormLogLevel("unknown"))
}
