package checkout

import (
	"circustix/internal/seatmap"
)

type ClickSeatResponse struct {
	Result  seatmap.ClickResult `json:"result"`
	Session *SessionView        `json:"session"`
}

type ConfirmationResponse struct {
	Success bool `json:"success"`
	IsMock  bool `json:"is_mock"`
	*Confirmation
}

func NewConfirmationResponse(c *Confirmation) ConfirmationResponse {
	return ConfirmationResponse{Success: true, IsMock: !c.Durable, Confirmation: c}
}
