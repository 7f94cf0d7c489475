package layout

import (
	"github.com/gin-gonic/gin"
)

func SetupLayoutRoutes(rg *gin.RouterGroup, controller Controller) {
	layouts := rg.Group("/layouts")
	{
		layouts.GET("/:context", controller.GetLayout)             // GET /api/v1/layouts/:context
		layouts.GET("/:context/seats/:seatId", controller.GetSeat) // GET /api/v1/layouts/:context/seats/:seatId
	}
}
