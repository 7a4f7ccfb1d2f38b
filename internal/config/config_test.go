package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_BASE_URL", "")
	t.Setenv("PORT", "")
	path := writeConfig(t, `
server:
  port: 9000
  base_url: "http://example.test/"
jwt:
  secret: "file-secret"
database:
  host: db
  port: 5433
  user: u
  password: p
  dbname: travel
  sslmode: require
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://example.test", cfg.Server.BaseURL)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=travel sslmode=require", cfg.Database.DSN())
	assert.Equal(t, "http://example.test/assets/placeholder.png", cfg.PlaceholderImageURL())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: file-secret\n")
	t.Setenv("ACCESS_TOKEN_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "postgres://x@y/z")
	t.Setenv("SERVER_BASE_URL", "https://travel.test")
	t.Setenv("PORT", "8123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "postgres://x@y/z", cfg.Database.DSN())
	assert.Equal(t, "https://travel.test", cfg.Server.BaseURL)
	assert.Equal(t, 8123, cfg.Server.Port)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "s")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_BASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	_, err := Load(writeConfig(t, "server:\n  port: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "s")
	t.Setenv("PORT", "eighty")
	_, err := Load(writeConfig(t, ""))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.JWT.Secret = "s"
	require.NoError(t, cfg.Validate())

	cfg.Auth.BcryptCost = 1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.JWT.Secret = "s"
	cfg.Storage.Driver = "s3"
	assert.Error(t, cfg.Validate(), "s3 without bucket")
	cfg.AWS.S3Bucket = "travel-images"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "ftp"
	assert.Error(t, cfg.Validate())

	for _, mb := range []int64{0, -1} {
		cfg = Default()
		cfg.JWT.Secret = "s"
		cfg.Server.MaxUploadMB = mb
		assert.Error(t, cfg.Validate(), "max_upload_mb %d", mb)
	}
}
