package handlers

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/api/presenters"
	"Food-Share-Backend/internal/utils/storage"
	"Food-Share-Backend/pkg/request"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors onto HTTP. Anything unrecognised is
// treated as infrastructure trouble so storage details never reach clients.
func respondError(c *fiber.Ctx, message string, err error) error {
	if rejection, ok := domain.AsRejection(err); ok {
		return presenters.RejectionResponse(c, rejection)
	}

	switch {
	case errors.Is(err, domain.ErrDonationNotFound),
		errors.Is(err, domain.ErrHouseholdNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrHouseholdAccessDenied),
		errors.Is(err, domain.ErrUnauthorizedDonationAccess),
		errors.Is(err, domain.ErrUserNotAllowed):
		return presenters.ErrorResponse(c, fiber.StatusForbidden, message, err)
	case errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrInvalidExpirationDate),
		errors.Is(err, domain.ErrInvalidDonationQuantity),
		errors.Is(err, domain.ErrInvalidMemberCount),
		errors.Is(err, request.ErrInvalidNeededBy),
		errors.Is(err, storage.ErrFileTypeNotAllowed):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	}

	if !domain.IsInfrastructureFailure(err) {
		log.Error().Err(err).Str("path", c.Path()).Msg(message)
	}
	return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageTryAgainLater, nil)
}

func validationError(c *fiber.Ctx, message string, err error) error {
	return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
