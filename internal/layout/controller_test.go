package layout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"circustix/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contextResolver map[string]string

func (r contextResolver) BlueprintFor(ctx context.Context, showContext string) (string, error) {
	name, ok := r[showContext]
	if !ok {
		return "", ErrUnknownContext
	}
	return name, nil
}

func setupLayoutRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cache := NewCache(NewGenerator(DefaultOptions()), DefaultBlueprints(), contextResolver{"show-42": BigTopBlueprint})
	r := gin.New()
	SetupLayoutRoutes(r.Group("/api/v1"), NewController(cache, pricing.NewCatalog(pricing.DefaultRules())))
	return r
}

func TestGetLayout(t *testing.T) {
	r := setupLayoutRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/layouts/show-42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data LayoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "show-42", body.Data.ShowContext)
	assert.Len(t, body.Data.Sections, 11)
	require.NotEmpty(t, body.Data.Seats)
	for _, s := range body.Data.Seats {
		if s.Tier == pricing.TierVIP {
			assert.Equal(t, 68.07, s.Price)
			break
		}
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/layouts/show-7", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSeat(t *testing.T) {
	r := setupLayoutRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/layouts/show-42/seats/bottom-center-r0-c0", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data SeatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VIP - Row A Seat 1", body.Data.Label)
	assert.Equal(t, 68.07, body.Data.Price)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/layouts/show-42/seats/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
