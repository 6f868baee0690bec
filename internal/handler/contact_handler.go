package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/internal/utils"
)

// ContactHandler handles contact submissions.
type ContactHandler struct {
	service service.ContactService
	logger  zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(service service.ContactService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires contact routes.
func (h *ContactHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	handlers := append(middlewares, h.submit)
	router.Post("", handlers...)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	var payload dto.ContactRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	payload.IPAddress = c.IP()

	response, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Missing required fields", fiber.Map{"fields": validationErr.Fields})
		case errors.Is(err, service.ErrContactInvalid):
			return utils.SendError(c, fiber.StatusBadRequest, "Missing required fields")
		case errors.Is(err, service.ErrCaptchaMissing):
			return utils.SendError(c, fiber.StatusBadRequest, "Missing CAPTCHA token")
		case errors.Is(err, service.ErrCaptchaRejected):
			return utils.SendError(c, fiber.StatusForbidden, "Invalid CAPTCHA")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to process contact submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit contact form")
		}
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
