package reservations

import (
	"github.com/gin-gonic/gin"
)

// SetupReservationRoutes registers occupancy, hold and order routes
func SetupReservationRoutes(router *gin.RouterGroup, controller Controller) {
	router.GET("/occupancy/:context", controller.GetOccupancy) // GET /api/v1/occupancy/:context - Sold and held seats

	holds := router.Group("/holds")
	{
		holds.POST("", controller.HoldSeats)     // POST /api/v1/holds - Hold seats for 5 minutes
		holds.DELETE("", controller.ReleaseHold) // DELETE /api/v1/holds - Release held seats
	}

	orders := router.Group("/orders")
	{
		orders.POST("", controller.CreateOrder)                   // POST /api/v1/orders - Create an order
		orders.GET("/:id", controller.GetOrder)                   // GET /api/v1/orders/:id - Order details
		orders.PATCH("/:id/status", controller.UpdateOrderStatus) // PATCH /api/v1/orders/:id/status - Move order status
	}
}
