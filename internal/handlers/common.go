package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/abhyaas/internal/auth"
)

var requestValidator = validator.New()

// parseBody decodes the JSON request body into dst and validates its
// field tags, returning a 400 fiber error naming the first bad field.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := requestValidator.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			field := strings.ToLower(first.Field())
			switch first.Tag() {
			case "required":
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is required", field))
			case "email":
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a valid email", field))
			default:
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s is invalid", field))
			}
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	return nil
}

// httpError maps a domain error kind to its HTTP status. Anything that is
// not a domain error passes through to fiber's error handler as a 500.
func httpError(err error) error {
	var domainErr *auth.Error
	if !errors.As(err, &domainErr) {
		return err
	}

	status := fiber.StatusInternalServerError
	switch domainErr.Kind {
	case auth.KindValidation:
		status = fiber.StatusBadRequest
	case auth.KindUnauthorized:
		status = fiber.StatusUnauthorized
	case auth.KindForbidden:
		status = fiber.StatusForbidden
	case auth.KindNotFound:
		status = fiber.StatusNotFound
	case auth.KindDependency:
		status = fiber.StatusInternalServerError
	}

	return fiber.NewError(status, domainErr.Message)
}
