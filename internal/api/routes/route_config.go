package routes

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/api/handlers"
	"Food-Share-Backend/internal/api/presenters"
	"Food-Share-Backend/internal/middleware"
	"Food-Share-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	DonationHandler  handlers.DonationHandler
	ClaimHandler     handlers.ClaimHandler
	HouseholdHandler handlers.HouseholdHandler
	RequestHandler   handlers.RequestHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Donations()
	c.Households()
	c.Requests()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})

	// anonymous visitors get a guest identity so they can register a
	// household and claim without an account
	c.App.Post("/api/v1/guests", func(ctx *fiber.Ctx) error {
		token, guestID := c.JWTService.GenerateTokenGuest()
		return presenters.SuccessResponse(ctx, fiber.Map{
			"token":   token,
			"user_id": guestID,
			"role":    domain.RoleGuest,
		}, fiber.StatusCreated, "guest identity issued")
	})
}

func (c *Config) Donations() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	donations := c.App.Group("/api/v1/donations")
	donations.Get("", c.Middleware.OptionalAuth(c.JWTService), c.DonationHandler.GetDonations)
	donations.Get("/mine", auth, c.DonationHandler.GetMyDonations)
	donations.Get("/:id", c.DonationHandler.GetDonationByID)
	donations.Post("", auth, c.Middleware.OnlyAllow(domain.RoleUser), c.DonationHandler.CreateDonation)
	donations.Patch("/:id/complete", auth, c.DonationHandler.CompleteDonation)

	donations.Get("/:id/allowance", auth, c.ClaimHandler.GetAllowance)
	donations.Post("/:id/applications", auth, c.ClaimHandler.Apply)
}

func (c *Config) Households() {
	households := c.App.Group("/api/v1/households", c.Middleware.AuthMiddleware(c.JWTService))
	households.Post("", c.HouseholdHandler.RegisterHousehold)
	households.Get("/me", c.HouseholdHandler.GetMyHouseholds)
	households.Get("/:id/applications", c.ClaimHandler.GetHouseholdApplications)
}

func (c *Config) Requests() {
	requests := c.App.Group("/api/v1/requests")
	requests.Get("", c.RequestHandler.GetOpenRequests)
	requests.Get("/mine", c.Middleware.AuthMiddleware(c.JWTService), c.RequestHandler.GetMyRequests)
	requests.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.RequestHandler.CreateRequest)
}
