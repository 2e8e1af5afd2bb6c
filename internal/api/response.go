package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"MarketDash/internal/calculator"
	"MarketDash/internal/store"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success   bool        `json:"success"`
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty"`
	Field   string                 `json:"field,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// DataResponse writes the envelope with the given status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Success:   statusCode < http.StatusBadRequest,
		Status:    statusCode,
		Message:   http.StatusText(statusCode),
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

func BadRequestResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusBadRequest, data)
}

func NotFoundResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusNotFound, data)
}

// ErrorResponse maps domain errors onto HTTP statuses.
func ErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFoundResponse(c, err.Error())
	case errors.Is(err, calculator.ErrInvalidArgument), errors.Is(err, calculator.ErrMalformedBar):
		return BadRequestResponse(c, []ValidationError{{Code: "ERR_INVALID", Message: err.Error()}})
	default:
		return DataResponse(c, http.StatusInternalServerError, "Something went wrong")
	}
}
