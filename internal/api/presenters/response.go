package presenters

import (
	"Food-Share-Backend/domain"

	"github.com/gofiber/fiber/v2"
)

type (
	Response struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
		Error   string `json:"error,omitempty"`
	}

	// RejectionBody carries the stable reason code clients key their copy on.
	RejectionBody struct {
		Reason domain.RejectionReason `json:"reason"`
		Fields []string               `json:"fields,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

func RejectionResponse(c *fiber.Ctx, rejection *domain.ValidationRejection) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
		Status:  false,
		Message: rejection.Message,
		Data: RejectionBody{
			Reason: rejection.Reason,
			Fields: rejection.Fields,
		},
		Error: rejection.Error(),
	})
}
