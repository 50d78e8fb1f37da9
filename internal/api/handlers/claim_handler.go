package handlers

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/api/presenters"
	"Food-Share-Backend/pkg/claim"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ClaimHandler interface {
		Apply(c *fiber.Ctx) error
		GetAllowance(c *fiber.Ctx) error
		GetHouseholdApplications(c *fiber.Ctx) error
	}

	claimHandler struct {
		claimService claim.ClaimService
		validator    *validator.Validate
	}
)

func NewClaimHandler(claimService claim.ClaimService, validator *validator.Validate) ClaimHandler {
	return &claimHandler{
		claimService: claimService,
		validator:    validator,
	}
}

func (h *claimHandler) Apply(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.ApplyRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if req.Quantity <= 0 {
		return presenters.RejectionResponse(c, domain.ErrInvalidClaimQuantity)
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, domain.MessageFailedApply, err)
	}

	res, err := h.claimService.Apply(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return respondError(c, domain.MessageFailedApply, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessApply)
}

func (h *claimHandler) GetAllowance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	householdID := c.Query("household_id")
	if householdID == "" {
		return presenters.RejectionResponse(c, domain.MissingFields("household_id"))
	}

	allowance, err := h.claimService.Preview(c.Context(), c.Params("id"), householdID, userID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetAllowance, err)
	}

	return presenters.SuccessResponse(c, allowance, fiber.StatusOK, domain.MessageSuccessGetAllowance)
}

func (h *claimHandler) GetHouseholdApplications(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	applications, err := h.claimService.GetHouseholdApplications(c.Context(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetApplications, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"applications": applications,
	}, fiber.StatusOK, domain.MessageSuccessGetApplications)
}
