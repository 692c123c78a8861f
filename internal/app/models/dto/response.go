package dto

// MessageResponse is the body of plain success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request. Status semantics live in
// the HTTP status code; no structured error codes are exposed.
type ErrorResponse struct {
	Message string `json:"message"`
}
