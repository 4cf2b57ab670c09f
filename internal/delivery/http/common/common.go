package http_common

// ErrorResponse is the JSON error envelope shared by every endpoint.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func NewError(code int, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Message: message,
			Code:    code,
		},
	}
}
