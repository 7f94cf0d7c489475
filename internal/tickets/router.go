package tickets

import (
	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes registers ticket download and gate validation routes
func SetupTicketRoutes(router *gin.RouterGroup, controller Controller) {
	orders := router.Group("/orders")
	{
		orders.GET("/:id/ticket.pdf", controller.DownloadTicket) // GET /api/v1/orders/:id/ticket.pdf - Printable ticket
		orders.GET("/:id/qr.png", controller.GetQRCode)          // GET /api/v1/orders/:id/qr.png - Ticket QR code
	}

	tickets := router.Group("/tickets")
	{
		tickets.GET("/validate", controller.ValidateTicket) // GET /api/v1/tickets/validate?code= - Check a scanned code
		tickets.POST("/redeem", controller.RedeemTicket)    // POST /api/v1/tickets/redeem - Admit a ticket once
	}
}
