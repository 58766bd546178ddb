package main

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tradehub-be/internal/config"
	"tradehub-be/internal/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func memoryConfig() *config.Config {
	return &config.Config{
		AppEnv:           "test",
		AppPort:          "0",
		DocstoreDriver:   config.DriverMemory,
		JWTSecret:        "secret",
		JWTTTL:           time.Hour,
		CacheTTL:         time.Minute,
		RFQExpiryWindow:  24 * time.Hour,
		RFQSweepInterval: time.Hour,
		CORSOrigin:       "http://localhost:3000",
	}
}

func TestNewApp(t *testing.T) {
	t.Run("Memory store serves health", func(t *testing.T) {
		a, err := newApp(context.Background(), memoryConfig())
		require.NoError(t, err)
		defer a.close()

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()
		a.handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(logger.RequestIDHeader))
		assert.NotNil(t, a.sweeper)
		assert.NotNil(t, a.limiter)
	})

	t.Run("Sign up round trip", func(t *testing.T) {
		a, err := newApp(context.Background(), memoryConfig())
		require.NoError(t, err)
		defer a.close()

		body := `{"email":"Ana@Example.com","password":"secret123","displayName":"Ana"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		a.handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "ana@example.com")
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("Postgres driver opens the database", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()

		orig := openDBFunc
		defer func() { openDBFunc = orig }()
		openDBFunc = func(*config.Config) *sql.DB { return mockDB }

		cfg := memoryConfig()
		cfg.DocstoreDriver = config.DriverPostgres
		a, err := newApp(context.Background(), cfg)
		require.NoError(t, err)
		a.close()

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unreachable redis fails startup", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.RedisAddr = "127.0.0.1:1"

		_, err := newApp(context.Background(), cfg)
		assert.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	orig := startServerFunc
	defer func() { startServerFunc = orig }()

	var started *http.Server
	startServerFunc = func(srv *http.Server) error {
		started = srv
		return http.ErrServerClosed
	}

	t.Setenv("APP_PORT", "9091")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DOCSTORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("SMTP_HOST", "")

	require.NoError(t, run())
	require.NotNil(t, started)
	assert.Equal(t, ":9091", started.Addr)
}

func TestRun_ConfigError(t *testing.T) {
	t.Setenv("DOCSTORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "")

	assert.ErrorContains(t, run(), "JWT_SECRET")
}
