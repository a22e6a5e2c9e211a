package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gograph/adapters/sqlstore"
	"gograph/internal/config"
	"gograph/internal/ops"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "8080", GinMode: "test"},
		Upload:   config.UploadConfig{MaxBytes: 1 << 20},
		Session:  config.SessionConfig{TTL: 20 * time.Minute},
		Surface:  config.SurfaceConfig{Width: 400, Height: 300},
		Export:   config.ExportConfig{MaxConcurrent: 2},
		LogLevel: "ERROR",
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitWithoutDatabase(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, c.InitWithDatabase(nil))
	assert.Nil(t, c.Charts)
	assert.Equal(t, 20*time.Minute, c.Server.SessionTTL())

	rec := httptest.NewRecorder()
	c.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	cfg := c.OpsConfig()
	assert.Nil(t, cfg.Database)
	assert.Equal(t, 0, cfg.SessionCount())
	assert.NoError(t, c.Shutdown())
}

func TestInitWithDatabase(t *testing.T) {
	db, err := sqlstore.Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)

	c, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, c.InitWithDatabase(db))
	require.NotNil(t, c.Charts)

	rec := httptest.NewRecorder()
	c.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	ops.NewRouter(c.OpsConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	assert.NoError(t, c.Shutdown())
}
