package handler

import (
	"errors"
	"net/http"
	"strconv"

	"paintflow-api/internal/service"

	"github.com/labstack/echo/v4"
)

// respondError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so internal detail never leaks.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInsufficientStock):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrAccountDisabled):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrEmailTaken):
		status, message = http.StatusConflict, err.Error()
	}

	return c.JSON(status, echo.Map{"error": message})
}

// paramUint parses a numeric path parameter
func paramUint(c echo.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}

// queryInt parses a numeric query parameter, falling back to a default
func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
