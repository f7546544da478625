// Package respond owns the uniform response envelope every endpoint returns,
// success or failure.
package respond

import "github.com/labstack/echo/v4"

// Envelope is the canonical response wrapper.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// New builds an envelope; Success is derived from the status code.
func New(statusCode int, data any, message string) Envelope {
	return Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// JSON writes an envelope with the given status code.
func JSON(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, New(statusCode, data, message))
}

// Empty writes the legacy zero-matches response: HTTP 404 carrying an empty
// list payload rather than a plain error body.
func Empty(c echo.Context, data any, message string) error {
	return JSON(c, 404, data, message)
}
