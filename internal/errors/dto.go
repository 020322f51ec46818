package errors

// ErrorResponse is the envelope every error leaves the HTTP layer in.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the user-facing message plus machine-readable context
// assembled from the hints and safe details on the error chain.
type ErrorDetail struct {
	// Code is the sentinel code the error was marked with, e.g.
	// configuration_conflict
	Code    string         `json:"code,omitempty"`
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewErrorResponse assembles the envelope for a marked error.
func NewErrorResponse(err error, display string, details map[string]any) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    ErrCode(err),
			Display: display,
			Details: details,
		},
	}
}
