package checkout

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"circustix/internal/shared/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func setupCheckoutRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterWithGin())

	f := newSessionFixture(t)
	r := gin.New()
	SetupCheckoutRoutes(r.Group("/api/v1"), NewController(f.service))
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func openSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, env := doJSON(r, http.MethodPost, "/api/v1/checkout/sessions", map[string]string{"show_context": "1-lv-p1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view SessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view.ID
}

func TestCheckoutEndpointsHappyPath(t *testing.T) {
	r := setupCheckoutRouter(t)
	id := openSession(t, r)
	base := "/api/v1/checkout/sessions/" + id

	w, _ := doJSON(r, http.MethodPost, base+"/sections/bottom-center", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, seat := range []string{"bottom-center-r0-c0", "bottom-center-r0-c1", "bottom-center-r0-c2", "bottom-center-r0-c3"} {
		w, _ = doJSON(r, http.MethodPost, base+"/seats/"+seat, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, env := doJSON(r, http.MethodPost, base+"/proceed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view SessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 4, view.Checkout.Counts.Promo)

	w, env = doJSON(r, http.MethodPut, base+"/assignment", map[string]interface{}{"counts": map[string]int{"adult": 2}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Please assign types to 2 more seats.", env.Message)

	w, env = doJSON(r, http.MethodPost, base+"/advance", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Please assign types to 2 more seats.", env.Message)

	w, _ = doJSON(r, http.MethodPut, base+"/assignment", map[string]interface{}{"counts": map[string]int{"adult": 4}})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(r, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.NotNil(t, view.Checkout.Quote)
	assert.InDelta(t, 228.71, view.Checkout.Quote.Total, 0.001)
	assert.True(t, view.Checkout.Quote.GroupDiscount)

	w, env = doJSON(r, http.MethodPost, base+"/pay", map[string]interface{}{
		"customer": map[string]string{"name": "Ada Lovelace", "email": "ada@example.com"},
		"card":     map[string]string{"number": "4242 4242 4242 4242", "name": "Ada Lovelace", "expiry": "12/30", "cvc": "123"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var conf ConfirmationResponse
	require.NoError(t, json.Unmarshal(env.Data, &conf))
	assert.True(t, conf.Success)
	assert.False(t, conf.IsMock)
	assert.NotEmpty(t, conf.OrderID)
	assert.True(t, conf.QRAvailable)

	w, _ = doJSON(r, http.MethodPost, base+"/back", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutEndpointErrors(t *testing.T) {
	r := setupCheckoutRouter(t)

	w, _ := doJSON(r, http.MethodGet, "/api/v1/checkout/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(r, http.MethodPost, "/api/v1/checkout/sessions", map[string]string{"show_context": "bad context!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodPost, "/api/v1/checkout/sessions", map[string]string{"show_context": "99-nowhere-p9"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := openSession(t, r)
	base := "/api/v1/checkout/sessions/" + id

	w, _ = doJSON(r, http.MethodPost, base+"/proceed", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodPost, base+"/advance", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(r, http.MethodPost, base+"/zoom", map[string]string{"action": "sideways"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodPost, base+"/zoom", map[string]string{"action": "in"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(r, http.MethodPost, base+"/seats/no-such-seat", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
