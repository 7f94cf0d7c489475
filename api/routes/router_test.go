package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"circustix/internal/shared/config"
	"circustix/internal/shared/database"
	"circustix/internal/shared/validation"
	"circustix/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestEngine(t *testing.T) (*gin.Engine, *Router) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterWithGin())

	cfg := config.Load()
	cfg.Kafka.Enabled = false
	cfg.Email.Enabled = false

	var buf bytes.Buffer
	appRouter := NewRouter(cfg, &database.DB{}, logger.NewWithWriter(&buf, "error"))
	require.NoError(t, appRouter.Start())
	t.Cleanup(func() { _ = appRouter.Close() })

	engine := gin.New()
	appRouter.SetupRoutes(engine)
	return engine, appRouter
}

func do(engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealthWithoutExternalStores(t *testing.T) {
	engine, _ := setupTestEngine(t)

	w := do(engine, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "circustix", body["service"])
	stores := body["stores"].(map[string]interface{})
	assert.Equal(t, false, stores["orders_durable"])
	assert.Equal(t, false, stores["holds_shared"])

	w = do(engine, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestCatalogAndSwaggerAreMounted(t *testing.T) {
	engine, _ := setupTestEngine(t)

	w := do(engine, http.MethodGet, "/api/v1/shows", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(engine, http.MethodGet, "/api/v1/layouts/1-lv-p1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(engine, http.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Circus Box Office API")
}

func TestHoldsAreVisibleToCheckoutSessions(t *testing.T) {
	engine, appRouter := setupTestEngine(t)

	w := do(engine, http.MethodPost, "/api/v1/holds", map[string]interface{}{
		"show_context": "1-lv-p1",
		"seat_ids":     []string{"bottom-center-r0-c0"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(engine, http.MethodPost, "/api/v1/checkout/sessions", map[string]string{"show_context": "1-lv-p1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "bottom-center-r0-c0")

	w = do(engine, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, appRouter.sessions.Len())
}
