package handler

import (
	"errors"
	"strings"

	"go-stock-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// actor builds the acting user from the locals set by RequireAuth.
func actor(c *fiber.Ctx) service.Actor {
	a := service.Actor{}
	if id, ok := c.Locals("user_id").(string); ok {
		a.ID, _ = uuid.Parse(id)
	}
	if name, ok := c.Locals("user_name").(string); ok {
		a.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		a.Email = email
	}
	return a
}

// paramID parses a UUID route parameter, answering 400 itself when it is malformed.
func paramID(c *fiber.Ctx, name, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + entity + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto status codes. Storage failures are logged and hidden.
func respondError(c *fiber.Ctx, log *zap.Logger, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message(err)})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": message(err)})
	}

	log.Error(op+" failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

// message drops the "<class>: " prefix the service adds when wrapping a sentinel.
func message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrValidation, service.ErrNotFound, service.ErrConflict} {
		prefix := sentinel.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 {
			return msg[:i] + msg[i+len(prefix):]
		}
	}
	return msg
}
