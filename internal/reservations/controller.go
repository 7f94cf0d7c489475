package reservations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"circustix/internal/layout"
	"circustix/internal/shared/utils/response"
)

type Controller interface {
	GetOccupancy(c *gin.Context)
	HoldSeats(c *gin.Context)
	ReleaseHold(c *gin.Context)
	CreateOrder(c *gin.Context)
	GetOrder(c *gin.Context)
	UpdateOrderStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// HTTPStatus maps reservation and layout errors onto response codes
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrHoldConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrOrderExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnknownSeat):
		return http.StatusBadRequest
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, layout.ErrUnknownContext):
		return http.StatusNotFound
	case errors.Is(err, ErrHoldUnavailable), errors.Is(err, ErrPersistenceFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorDetails exposes the conflicting seats of a hold conflict
func ErrorDetails(err error) interface{} {
	var conflict *HoldConflictError
	if errors.As(err, &conflict) {
		return HoldConflictResponse{ShowContext: conflict.ShowContext, SeatIDs: conflict.SeatIDs}
	}
	return err.Error()
}

func (ctrl *controller) GetOccupancy(c *gin.Context) {
	occ, err := ctrl.service.Occupancy(c.Request.Context(), c.Param("context"))
	if err != nil {
		response.RespondJSON(c, "error", HTTPStatus(err), "Failed to retrieve occupancy", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Occupancy retrieved successfully", occ, nil)
}

func (ctrl *controller) HoldSeats(c *gin.Context) {
	var req HoldSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	hold, err := ctrl.service.HoldSeats(c.Request.Context(), HoldRequest{
		ShowContext: req.ShowContext,
		SeatIDs:     req.SeatIDs,
		Holder:      req.Holder,
	})
	if err != nil {
		message := "Failed to hold seats"
		if errors.Is(err, ErrHoldConflict) || errors.Is(err, ErrHoldUnavailable) {
			message = "Some seats may have been taken. Please pick again."
		}
		response.RespondJSON(c, "error", HTTPStatus(err), message, nil, ErrorDetails(err))
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats held successfully", hold, nil)
}

func (ctrl *controller) ReleaseHold(c *gin.Context) {
	var req ReleaseHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	if err := ctrl.service.ReleaseHold(c.Request.Context(), req.ShowContext, req.Holder, req.SeatIDs); err != nil {
		response.RespondJSON(c, "error", HTTPStatus(err), "Failed to release hold", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold released successfully", nil, nil)
}

func (ctrl *controller) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	result, err := ctrl.service.CreateOrder(c.Request.Context(), req.ToInput())
	if err != nil {
		message := "Failed to create order"
		switch {
		case errors.Is(err, ErrHoldConflict):
			message = "Some seats may have been taken. Please pick again."
		case errors.Is(err, ErrPersistenceFailure):
			message = "We could not complete your order. Please try again."
		}
		response.RespondJSON(c, "error", HTTPStatus(err), message, nil, ErrorDetails(err))
		return
	}

	message := "Order created successfully"
	if !result.Durable {
		message = "Order created successfully (stored in fallback mode)"
	}
	response.RespondJSON(c, "success", http.StatusCreated, message, NewOrderCreatedResponse(result), nil)
}

func (ctrl *controller) GetOrder(c *gin.Context) {
	order, err := ctrl.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", HTTPStatus(err), "Failed to retrieve order", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Order retrieved successfully", order, nil)
}

func (ctrl *controller) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	order, err := ctrl.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), Status(req.Status))
	if err != nil {
		response.RespondJSON(c, "error", HTTPStatus(err), "Failed to update order status", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Order status updated successfully", order, nil)
}
