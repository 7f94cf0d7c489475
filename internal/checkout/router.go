package checkout

import (
	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes registers the buyer-facing checkout session routes
func SetupCheckoutRoutes(router *gin.RouterGroup, controller Controller) {
	sessions := router.Group("/checkout/sessions")
	{
		sessions.POST("", controller.CreateSession)                       // POST /api/v1/checkout/sessions - Open a session on a show context
		sessions.GET("/:id", controller.GetSession)                       // GET /api/v1/checkout/sessions/:id - Seat map and checkout state
		sessions.DELETE("/:id", controller.DeleteSession)                 // DELETE /api/v1/checkout/sessions/:id - Close the session
		sessions.POST("/:id/sections/:section", controller.SelectSection) // POST /api/v1/checkout/sessions/:id/sections/:section - Focus a section
		sessions.POST("/:id/seats/:seatId", controller.ClickSeat)         // POST /api/v1/checkout/sessions/:id/seats/:seatId - Toggle a seat
		sessions.POST("/:id/click", controller.ClickPoint)                // POST /api/v1/checkout/sessions/:id/click - Hit-test a map point
		sessions.POST("/:id/reset", controller.ResetView)                 // POST /api/v1/checkout/sessions/:id/reset - Back to the overview
		sessions.POST("/:id/zoom", controller.Zoom)                       // POST /api/v1/checkout/sessions/:id/zoom - Zoom or pan
		sessions.POST("/:id/proceed", controller.Proceed)                 // POST /api/v1/checkout/sessions/:id/proceed - Hold seats and assign types
		sessions.PUT("/:id/assignment", controller.Assign)                // PUT /api/v1/checkout/sessions/:id/assignment - Set ticket types
		sessions.POST("/:id/advance", controller.Advance)                 // POST /api/v1/checkout/sessions/:id/advance - Go to payment summary
		sessions.POST("/:id/back", controller.Back)                       // POST /api/v1/checkout/sessions/:id/back - Previous step
		sessions.POST("/:id/pay", controller.Pay)                         // POST /api/v1/checkout/sessions/:id/pay - Pay and place the order
		sessions.POST("/:id/cancel", controller.Cancel)                   // POST /api/v1/checkout/sessions/:id/cancel - Abandon checkout
	}
}
