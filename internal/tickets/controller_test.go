package tickets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circustix/internal/reservations"
)

func setupTicketRouter(orders OrderReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupTicketRoutes(r.Group("/api/v1"), NewController(newTestService(orders, "")))
	return r
}

func TestDownloadTicket(t *testing.T) {
	r := setupTicketRouter(newFakeOrders(ticketOrder("GBC-1-PAID00", reservations.StatusPaid)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/GBC-1-PAID00/ticket.pdf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ticket-GBC-1-PAID00.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/GBC-1-NOPE00/ticket.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetQRCode(t *testing.T) {
	r := setupTicketRouter(newFakeOrders(ticketOrder("GBC-1-PAID00", reservations.StatusPaid)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/GBC-1-PAID00/qr.png", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestValidateAndRedeemEndpoints(t *testing.T) {
	r := setupTicketRouter(newFakeOrders(ticketOrder("GBC-1-PAID00", reservations.StatusPaid)))

	validate := func(code string) (int, map[string]interface{}) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tickets/validate?code="+code, nil))
		var body map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w.Code, body
	}
	redeem := func(payload string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/redeem", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	code, body := validate("GBC-1-PAID00")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "valid", body["data"].(map[string]interface{})["status"])

	code, _ = validate("")
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, http.StatusOK, redeem(`{"code":"GBC-1-PAID00"}`))
	assert.Equal(t, http.StatusConflict, redeem(`{"code":"GBC-1-PAID00"}`))
	assert.Equal(t, http.StatusBadRequest, redeem(`{}`))

	_, body = validate("GBC-1-PAID00")
	assert.Equal(t, "used", body["data"].(map[string]interface{})["status"])
}
