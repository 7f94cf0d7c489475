package tickets

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"circustix/internal/reservations"
	"circustix/internal/shared/utils/response"
)

type Controller interface {
	DownloadTicket(c *gin.Context)
	GetQRCode(c *gin.Context)
	ValidateTicket(c *gin.Context)
	RedeemTicket(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) DownloadTicket(c *gin.Context) {
	order, err := ctrl.service.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", reservations.HTTPStatus(err), "Failed to retrieve order", nil, err.Error())
		return
	}

	pdf, err := ctrl.service.PDF(order)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadGateway, "Ticket could not be rendered. Your order "+order.ID+" is confirmed.", nil, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (ctrl *controller) GetQRCode(c *gin.Context) {
	order, err := ctrl.service.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", reservations.HTTPStatus(err), "Failed to retrieve order", nil, err.Error())
		return
	}

	png, err := ctrl.service.QRCode(order)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadGateway, "QR code could not be rendered. Use order number "+order.ID+" at the entrance.", nil, err.Error())
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

func (ctrl *controller) ValidateTicket(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Ticket code is required", nil, nil)
		return
	}

	v, err := ctrl.service.Validate(c.Request.Context(), code)
	if err != nil {
		ctrl.respondError(c, err, "Failed to validate ticket")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, v.Message, v, nil)
}

func (ctrl *controller) RedeemTicket(c *gin.Context) {
	var req RedeemTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	v, err := ctrl.service.Redeem(c.Request.Context(), req.Code)
	if err != nil {
		ctrl.respondError(c, err, "Failed to redeem ticket")
		return
	}

	code := http.StatusOK
	if !v.Admitted() {
		code = http.StatusConflict
	}
	response.RespondJSON(c, "success", code, v.Message, v, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrInvalidTicket) {
		response.RespondJSON(c, "error", http.StatusBadRequest, message, nil, err.Error())
		return
	}
	response.RespondJSON(c, "error", reservations.HTTPStatus(err), message, nil, err.Error())
}
