package model

type ErrorResponse struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

type ValidationErrorResponse struct {
	Status    int          `json:"status"`
	Error     string       `json:"error"`
	Timestamp int64        `json:"timestamp"`
	Errors    []FieldError `json:"errors"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
