package handlers

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/api/presenters"
	"Food-Share-Backend/pkg/household"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	HouseholdHandler interface {
		RegisterHousehold(c *fiber.Ctx) error
		GetMyHouseholds(c *fiber.Ctx) error
	}

	householdHandler struct {
		householdService household.HouseholdService
		validator        *validator.Validate
	}
)

func NewHouseholdHandler(householdService household.HouseholdService, validator *validator.Validate) HouseholdHandler {
	return &householdHandler{
		householdService: householdService,
		validator:        validator,
	}
}

func (h *householdHandler) RegisterHousehold(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.RegisterHouseholdRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return validationError(c, domain.MessageFailedRegisterHousehold, err)
	}

	res, err := h.householdService.RegisterHousehold(c.Context(), *req, userID)
	if err != nil {
		return respondError(c, domain.MessageFailedRegisterHousehold, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegisterHousehold)
}

func (h *householdHandler) GetMyHouseholds(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	households, err := h.householdService.GetUserHouseholds(c.Context(), userID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetHouseholds, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"households": households,
	}, fiber.StatusOK, domain.MessageSuccessGetHouseholds)
}
