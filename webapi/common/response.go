// Package common holds the response envelope, the RFC 9457 problem details
// shape, and the request binding helpers shared by all handlers.
package common

import (
	"errors"

	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/common"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/amirasaad/banking/pkg/money"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON writes a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// ProblemFromError maps a domain error onto its HTTP status and writes the
// problem-details response.
func ProblemFromError(c *fiber.Ctx, err error) error {
	return ErrorResponseJSON(c, ErrorToStatusCode(err), titleFor(err), err.Error())
}

// ErrorToStatusCode maps domain errors to HTTP status codes by their kind.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, account.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrMismatchedCurrencies):
		return fiber.StatusBadRequest
	}
	switch common.KindOf(err) {
	case common.KindNotFound:
		return fiber.StatusNotFound
	case common.KindValidation:
		return fiber.StatusBadRequest
	case common.KindConflict:
		return fiber.StatusConflict
	case common.KindAuthorization:
		return fiber.StatusForbidden
	case common.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func titleFor(err error) string {
	switch common.KindOf(err) {
	case common.KindNotFound:
		return "Not Found"
	case common.KindValidation:
		return "Validation Failed"
	case common.KindConflict:
		return "Conflict"
	case common.KindAuthorization:
		return "Access Denied"
	case common.KindUnavailable:
		return "Service Unavailable"
	default:
		return "Internal Server Error"
	}
}

// BindAndValidate parses the request body and validates it with
// go-playground/validator. On failure the error response is already written
// and the returned pointer is nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
