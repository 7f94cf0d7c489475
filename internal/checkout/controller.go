package checkout

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"circustix/internal/layout"
	"circustix/internal/pricing"
	"circustix/internal/reservations"
	"circustix/internal/seatmap"
	"circustix/internal/shared/utils/response"
)

type Controller interface {
	CreateSession(c *gin.Context)
	GetSession(c *gin.Context)
	DeleteSession(c *gin.Context)
	SelectSection(c *gin.Context)
	ClickSeat(c *gin.Context)
	ClickPoint(c *gin.Context)
	ResetView(c *gin.Context)
	Zoom(c *gin.Context)
	Proceed(c *gin.Context)
	Assign(c *gin.Context)
	Advance(c *gin.Context)
	Back(c *gin.Context)
	Pay(c *gin.Context)
	Cancel(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// HTTPStatus maps checkout, seat map and pricing errors onto response codes
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrCheckoutInProgress), errors.Is(err, seatmap.ErrSeatOccupied):
		return http.StatusConflict
	case errors.Is(err, pricing.ErrAssignmentMismatch), errors.Is(err, pricing.ErrPromoUnavailable), errors.Is(err, ErrInvalidCard):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pricing.ErrUnknownSeat), errors.Is(err, pricing.ErrUnknownTicketType):
		return http.StatusBadRequest
	case errors.Is(err, seatmap.ErrUnknownSection), errors.Is(err, seatmap.ErrUnknownSeat),
		errors.Is(err, seatmap.ErrEmptySelection), errors.Is(err, seatmap.ErrNoSectionAtPoint), errors.Is(err, ErrInvalidZoom):
		return http.StatusBadRequest
	case errors.Is(err, ErrConnectivity):
		return http.StatusGatewayTimeout
	default:
		return reservations.HTTPStatus(err)
	}
}

func respondError(c *gin.Context, message string, err error) {
	response.RespondJSON(c, "error", HTTPStatus(err), message, nil, reservations.ErrorDetails(err))
}

func (ctrl *controller) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	session, err := ctrl.service.CreateSession(c.Request.Context(), req.ShowContext)
	if err != nil {
		respondError(c, "Failed to start checkout", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Checkout session created successfully", session, nil)
}

func (ctrl *controller) GetSession(c *gin.Context) {
	session, err := ctrl.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to retrieve checkout session", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout session retrieved successfully", session, nil)
}

func (ctrl *controller) DeleteSession(c *gin.Context) {
	if err := ctrl.service.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to close checkout session", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout session closed successfully", nil, nil)
}

func (ctrl *controller) SelectSection(c *gin.Context) {
	session, err := ctrl.service.SelectSection(c.Request.Context(), c.Param("id"), c.Param("section"))
	if err != nil {
		respondError(c, "Failed to select section", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Section selected successfully", session, nil)
}

func (ctrl *controller) ClickSeat(c *gin.Context) {
	result, session, err := ctrl.service.ClickSeat(c.Request.Context(), c.Param("id"), c.Param("seatId"))
	if err != nil {
		respondError(c, "Failed to update seat selection", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat selection updated successfully", ClickSeatResponse{Result: result, Session: session}, nil)
}

func (ctrl *controller) ClickPoint(c *gin.Context) {
	var req ClickPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	session, err := ctrl.service.ClickPoint(c.Request.Context(), c.Param("id"), layout.Point{X: req.X, Y: req.Y})
	if err != nil {
		respondError(c, "Failed to select section", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Section selected successfully", session, nil)
}

func (ctrl *controller) ResetView(c *gin.Context) {
	session, err := ctrl.service.ResetView(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to reset view", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "View reset successfully", session, nil)
}

func (ctrl *controller) Zoom(c *gin.Context) {
	var req ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	session, err := ctrl.service.Zoom(c.Request.Context(), c.Param("id"), ZoomAction(req.Action), req.DX, req.DY)
	if err != nil {
		respondError(c, "Failed to update view", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "View updated successfully", session, nil)
}

func (ctrl *controller) Proceed(c *gin.Context) {
	session, err := ctrl.service.Proceed(c.Request.Context(), c.Param("id"))
	if err != nil {
		message := "Failed to hold seats"
		if errors.Is(err, reservations.ErrHoldConflict) || errors.Is(err, reservations.ErrHoldUnavailable) {
			message = "Some seats may have been taken. Please pick again."
		}
		respondError(c, message, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats held successfully", session, nil)
}

func (ctrl *controller) Assign(c *gin.Context) {
	var req AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	var (
		session *SessionView
		err     error
	)
	if req.Counts != nil {
		session, err = ctrl.service.AssignCounts(c.Request.Context(), c.Param("id"), req.Counts.ToCounts())
	} else {
		session, err = ctrl.service.AssignSeat(c.Request.Context(), c.Param("id"), req.SeatID, pricing.TicketType(req.TicketType))
	}
	if err != nil {
		response.RespondJSON(c, "error", HTTPStatus(err), err.Error(), nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket types updated successfully", session, nil)
}

func (ctrl *controller) Advance(c *gin.Context) {
	session, err := ctrl.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", HTTPStatus(err), err.Error(), nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout advanced successfully", session, nil)
}

func (ctrl *controller) Back(c *gin.Context) {
	session, err := ctrl.service.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to go back", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout moved back successfully", session, nil)
}

func (ctrl *controller) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	confirmation, err := ctrl.service.Pay(c.Request.Context(), c.Param("id"), req.ToDetails())
	if err != nil {
		message := "Payment failed"
		switch {
		case errors.Is(err, ErrConnectivity):
			message = ErrConnectivity.Error()
		case errors.Is(err, reservations.ErrHoldConflict):
			message = "Some seats may have been taken. Please pick again."
		case errors.Is(err, reservations.ErrPersistenceFailure):
			message = "We could not complete your order. Please try again."
		}
		respondError(c, message, err)
		return
	}

	message := "Order created successfully"
	if !confirmation.Durable {
		message = "Order created successfully (stored in fallback mode)"
	}
	response.RespondJSON(c, "success", http.StatusCreated, message, NewConfirmationResponse(confirmation), nil)
}

func (ctrl *controller) Cancel(c *gin.Context) {
	session, err := ctrl.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to cancel checkout", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout cancelled successfully", session, nil)
}
