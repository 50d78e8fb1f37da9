package handlers

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/api/presenters"
	"Food-Share-Backend/pkg/donation"
	"Food-Share-Backend/pkg/household"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		GetDonations(c *fiber.Ctx) error
		GetDonationByID(c *fiber.Ctx) error
		CreateDonation(c *fiber.Ctx) error
		GetMyDonations(c *fiber.Ctx) error
		CompleteDonation(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService  donation.DonationService
		householdService household.HouseholdService
		validator        *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, householdService household.HouseholdService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService:  donationService,
		householdService: householdService,
		validator:        validator,
	}
}

func (h *donationHandler) GetDonations(c *fiber.Ctx) error {
	householdID := c.Query("household_id")
	if householdID != "" {
		// applied ids are private to the household
		if _, err := h.householdService.Authorize(c.Context(), householdID, currentUser(c)); err != nil {
			return respondError(c, domain.MessageFailedGetDonations, err)
		}
	}

	listing, err := h.donationService.GetDonations(c.Context(), householdID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, listing, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonationByID(c *fiber.Ctx) error {
	donation, err := h.donationService.GetDonationByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, donation, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) CreateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// Parse request
	req := new(domain.DonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// Get food image if provided
	req.FoodImage, _ = c.FormFile("food_image")

	if err := h.validator.Struct(req); err != nil {
		return validationError(c, domain.MessageFailedCreateDonation, err)
	}

	donation, err := h.donationService.CreateDonation(c.Context(), *req, userID)
	if err != nil {
		return respondError(c, domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, donation, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

func (h *donationHandler) GetMyDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	donations, err := h.donationService.GetDonorDonations(c.Context(), userID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) CompleteDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.donationService.CompleteDonation(c.Context(), c.Params("id"), userID); err != nil {
		return respondError(c, domain.MessageFailedCompleteDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCompleteDonation)
}
