package middleware

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/api/presenters"
	"Food-Share-Backend/pkg/jwt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		// AuthMiddleware requires a valid bearer token and stores user_id and
		// role in the request locals.
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		// OptionalAuth fills the locals when a valid token is sent and lets
		// anonymous requests through.
		OptionalAuth(jwtService jwt.JWTService) fiber.Handler
		OnlyAllow(roles ...string) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		userID, role, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

func (m *middleware) OptionalAuth(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if userID, role, err := jwtService.GetUserIDByToken(token); err == nil {
				c.Locals("user_id", userID)
				c.Locals("role", role)
			}
		}
		return c.Next()
	}
}

func (m *middleware) OnlyAllow(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MesaageUserNotAllowed, domain.ErrUserNotAllowed)
	}
}
