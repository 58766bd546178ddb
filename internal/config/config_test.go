package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv restores the variables after the test.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("RFQ_EXPIRY_WINDOW", "72h")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("S3_USE_PATH_STYLE", "true")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5433", cfg.DBPort)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, DriverPostgres, cfg.DocstoreDriver)
		assert.Equal(t, 72*time.Hour, cfg.RFQExpiryWindow)
		assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.True(t, cfg.Storage.UsePathStyle)
		assert.False(t, cfg.Storage.Enabled())
	})

	t.Run("Memory driver needs no database", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("DOCSTORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, DriverMemory, cfg.DocstoreDriver)
	})

	t.Run("Missing DB host", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("DOCSTORE_DRIVER", "postgres")
		t.Setenv("JWT_SECRET", "secret")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "DB_HOST")
	})

	t.Run("Missing JWT secret", func(t *testing.T) {
		t.Setenv("DOCSTORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("Invalid duration", func(t *testing.T) {
		t.Setenv("DOCSTORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("RFQ_EXPIRY_WINDOW", "soon")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "RFQ_EXPIRY_WINDOW")
	})
}
