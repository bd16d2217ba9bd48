package dto

// ErrorResponse is the failure body of every endpoint:
// { "success": false, "message": ..., "error"?: ..., "code"?: ... }
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates a failure body. cause is the underlying error
// text and may be empty.
func NewErrorResponse(code, message, cause string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
		Error:   cause,
		Code:    code,
	}
}

// WithRequestID returns a copy carrying the request id
func (r ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	r.RequestID = requestID
	return r
}

// Response wraps read endpoints' payloads
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}
