package routes

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/events"
	"github.com/maxtour/maxtour/pkg/report"
)

// Handlers carries what the route handlers need. Cache and Publisher are optional.
type Handlers struct {
	Store     database.Store
	Cache     *report.Cache
	Publisher *events.Publisher
	Validator *validator.Validate

	Now func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func sendError(c *fiber.Ctx, status int, message string) error {
	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"erro": message,
	})
}

// sendStoreError maps store failures onto the API error body
func sendStoreError(c *fiber.Ctx, err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return sendError(c, fiber.StatusNotFound, notFoundMessage)
	case errors.Is(err, database.ErrAlreadyExists):
		return sendError(c, fiber.StatusBadRequest, "ID já existe")
	default:
		return sendError(c, fiber.StatusInternalServerError, err.Error())
	}
}

const shiftErrorMessage = `Turno deve ser "primeiro_turno" ou "segundo_turno"`

// validationMessage turns the first validation failure into a user facing message
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	fieldError := validationErrors[0]
	switch fieldError.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("Campo obrigatório: %s", fieldError.Field())
	case "oneof":
		if fieldError.Field() == "turno" {
			return shiftErrorMessage
		}
		return fmt.Sprintf("Campo %s deve ser um de: %s", fieldError.Field(), fieldError.Param())
	case "clock":
		return fmt.Sprintf("Campo %s deve estar no formato HH:MM", fieldError.Field())
	case "datetime":
		return fmt.Sprintf("Campo %s deve estar no formato AAAA-MM-DD", fieldError.Field())
	default:
		return fmt.Sprintf("Campo inválido: %s", fieldError.Field())
	}
}

func sendFiberError(c *fiber.Ctx, err error) error {
	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return sendError(c, fiberError.Code, fiberError.Message)
	}
	return sendError(c, fiber.StatusInternalServerError, err.Error())
}
