package tickets

// RedeemTicketRequest is a code scanned at the gate
type RedeemTicketRequest struct {
	Code string `json:"code" binding:"required,max=1024"`
}
