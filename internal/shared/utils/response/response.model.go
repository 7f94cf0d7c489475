package response

// RequestIDKey is the gin context key the request id middleware writes
const RequestIDKey = "request_id"

// StandardApiResponse is the envelope every endpoint answers with
type StandardApiResponse struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"` // Validation or domain error details
	RequestID  string      `json:"request_id,omitempty"`
}
