package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"thoughts-board/internal/service"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_USER", "thoughts")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "127.0.0.1", cfg.DBHost)
	assert.Equal(t, service.DefaultTokenBytes, cfg.AuthTokenBytes)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, "thoughts:", cfg.RedisKeyPrefix)
	assert.False(t, cfg.AuthAllowLegacyHeader)
	assert.False(t, cfg.FeedEnabled())
	assert.Equal(t, "thoughts-bot", cfg.SeedAuthor)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_USER", "thoughts")
	t.Setenv("AUTH_TOKEN_BYTES", "32")
	t.Setenv("AUTH_ALLOW_LEGACY_HEADER", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, 32, cfg.AuthTokenBytes)
	assert.True(t, cfg.AuthAllowLegacyHeader)
	assert.True(t, cfg.FeedEnabled())
	assert.Equal(t, "info", cfg.LogLevel, "非法日志级别回退为 info")
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_USER: fromfile\nSERVER_PORT: \"9090\"\n"), 0o600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.DBUser)
	assert.Equal(t, "9090", cfg.ServerPort)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DB_USER", "")
	_, err := LoadConfig("")
	assert.Error(t, err, "DB_USER 必填")

	t.Setenv("DB_USER", "thoughts")
	t.Setenv("AUTH_TOKEN_BYTES", "16")
	_, err = LoadConfig("")
	assert.Error(t, err)

	t.Setenv("AUTH_TOKEN_BYTES", "64")
	t.Setenv("BCRYPT_COST", "99")
	_, err = LoadConfig("")
	assert.Error(t, err)
}
