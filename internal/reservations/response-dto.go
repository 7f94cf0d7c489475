package reservations

type OrderCreatedResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Durable bool   `json:"durable"`
	IsMock  bool   `json:"is_mock"`
	Order   *Order `json:"order"`
}

func NewOrderCreatedResponse(result *OrderResult) OrderCreatedResponse {
	return OrderCreatedResponse{
		Success: true,
		OrderID: result.Order.ID,
		Durable: result.Durable,
		IsMock:  result.IsMock(),
		Order:   result.Order,
	}
}

type HoldConflictResponse struct {
	ShowContext string   `json:"show_context"`
	SeatIDs     []string `json:"seat_ids"`
}
