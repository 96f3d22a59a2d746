package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// fetchError maps a failed fetch onto the status the screen receives.
func fetchError(err error) error {
	var fe *weather.FetchError
	if !errors.As(err, &fe) {
		if errors.Is(err, weather.ErrClosed) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	switch fe.Kind {
	case weather.KindInvalidRequest:
		return fiber.NewError(fiber.StatusBadRequest, fe.Error())
	case weather.KindHTTPStatus:
		if fe.StatusCode == http.StatusNotFound {
			return fiber.NewError(fiber.StatusNotFound, fe.Error())
		}
		return fiber.NewError(fiber.StatusBadGateway, fe.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, fe.Error())
	}
}
