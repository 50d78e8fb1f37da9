package handlers

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/api/presenters"
	"Food-Share-Backend/pkg/request"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RequestHandler interface {
		CreateRequest(c *fiber.Ctx) error
		GetOpenRequests(c *fiber.Ctx) error
		GetMyRequests(c *fiber.Ctx) error
	}

	requestHandler struct {
		requestService request.RequestService
		validator      *validator.Validate
	}
)

func NewRequestHandler(requestService request.RequestService, validator *validator.Validate) RequestHandler {
	return &requestHandler{
		requestService: requestService,
		validator:      validator,
	}
}

func (h *requestHandler) CreateRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CustomRequestInput)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// required fields come back as a rejection from the service
	if missing := request.MissingFields(*req); len(missing) > 0 {
		return presenters.RejectionResponse(c, domain.MissingFields(missing...))
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, domain.MessageFailedCreateRequest, err)
	}

	res, err := h.requestService.CreateRequest(c.Context(), *req, userID)
	if err != nil {
		return respondError(c, domain.MessageFailedCreateRequest, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRequest)
}

func (h *requestHandler) GetOpenRequests(c *fiber.Ctx) error {
	requests, err := h.requestService.GetOpenRequests(c.Context())
	if err != nil {
		return respondError(c, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *requestHandler) GetMyRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	requests, err := h.requestService.GetMyRequests(c.Context(), userID)
	if err != nil {
		return respondError(c, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"requests": requests,
	}, fiber.StatusOK, domain.MessageSuccessGetRequests)
}
