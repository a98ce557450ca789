package apps

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/export"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// Fail writes a JSON error body with the given status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// StoreError maps a store failure to a response. what names the entity, e.g.
// "lead".
func StoreError(c *fiber.Ctx, err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return Fail(c, fiber.StatusNotFound, what+" not found")
	}
	slog.Error("store operation failed",
		"request_id", requestID(c),
		"entity", what,
		"path", c.Path(),
		"error", err.Error(),
	)
	return Fail(c, fiber.StatusInternalServerError, "Failed to process "+what)
}

// TransitionFailure maps a conversion error. A partial failure is logged,
// reported to Sentry and surfaced as a 500 that names the leftover rows.
func TransitionFailure(c *fiber.Ctx, sess *session.Session, err error, what string) error {
	if errors.Is(err, lifecycle.ErrTransitionInProgress) {
		return Fail(c, fiber.StatusConflict, err.Error())
	}

	var te *lifecycle.TransitionError
	if errors.As(err, &te) {
		slog.Error("conversion partially failed",
			"request_id", requestID(c),
			"user_id", sess.UserID.String(),
			"action", te.Transition,
			"entity", what,
			"error", te.Err.Error(),
			"created_id", te.CreatedID.String(),
			"source_id", te.SourceID.String(),
		)
		hub := sentryfiber.GetHubFromContext(c)
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub.CaptureException(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      true,
			"message":    "Conversion partially failed: " + te.Step + " did not complete",
			"created_id": te.CreatedID,
			"source_id":  te.SourceID,
		})
	}

	return StoreError(c, err, what)
}

// SendCSV writes t as a file download.
func SendCSV(c *fiber.Ctx, t export.Table) error {
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+t.Filename+`"`)
	return t.Write(c.Response().BodyWriter())
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
