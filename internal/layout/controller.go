package layout

import (
	"errors"
	"net/http"

	"circustix/internal/pricing"
	"circustix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// ErrUnknownContext is returned by resolvers for show contexts they do not know
var ErrUnknownContext = errors.New("unknown show context")

type Controller interface {
	GetLayout(c *gin.Context)
	GetSeat(c *gin.Context)
}

type controller struct {
	cache   *Cache
	catalog *pricing.Catalog
}

func NewController(cache *Cache, catalog *pricing.Catalog) Controller {
	return &controller{cache: cache, catalog: catalog}
}

// GetLayout materializes the seat layout of a show context
func (c *controller) GetLayout(ctx *gin.Context) {
	showContext := ctx.Param("context")
	if showContext == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Show context is required", nil, "missing show context")
		return
	}

	l, err := c.cache.Get(ctx.Request.Context(), showContext)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownContext) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to build layout", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Layout retrieved successfully", NewLayoutResponse(showContext, l, c.catalog), nil)
}

// GetSeat returns one seat of a show context layout
func (c *controller) GetSeat(ctx *gin.Context) {
	l, err := c.cache.Get(ctx.Request.Context(), ctx.Param("context"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownContext) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to build layout", nil, err.Error())
		return
	}

	seat, ok := l.Seat(ctx.Param("seatId"))
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Seat not found", nil, ErrSeatNotFound.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat retrieved successfully",
		SeatResponse{Seat: seat, Price: c.catalog.NominalPrice(seat.Tier)}, nil)
}
