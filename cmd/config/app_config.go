package config

import (
	"Food-Share-Backend/internal/api/handlers"
	"Food-Share-Backend/internal/api/routes"
	"Food-Share-Backend/internal/middleware"
	"Food-Share-Backend/internal/utils"
	"Food-Share-Backend/internal/utils/storage"
	"Food-Share-Backend/pkg/application"
	"Food-Share-Backend/pkg/claim"
	"Food-Share-Backend/pkg/donation"
	"Food-Share-Backend/pkg/household"
	"Food-Share-Backend/pkg/jwt"
	"Food-Share-Backend/pkg/request"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const lockTTL = 10 * time.Second

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate
	location := utils.PickupLocation()

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "error creating logs directory")
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, errors.Wrap(err, "error opening log file")
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   location.String(),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3, err := storage.NewAwsS3(storage.ConfigFromEnv())
	if err != nil {
		log.Warn().Err(err).Msg("image storage disabled")
		s3 = nil
	}
	locker, err := newLocker()
	if err != nil {
		return nil, err
	}

	// Repository
	donationRepository := donation.NewDonationRepository(db)
	householdRepository := household.NewHouseholdRepository(db)
	applicationRepository := application.NewApplicationRepository(db)
	requestRepository := request.NewRequestRepository(db)

	// Service
	clock := utils.SystemClock{}
	ledger := application.NewLedger(applicationRepository)
	jwtService := jwt.NewJWTService()
	householdService := household.NewHouseholdService(householdRepository)
	donationService := donation.NewDonationService(donationRepository, ledger, s3, clock, location)
	claimService := claim.NewClaimService(db, donationRepository, ledger, householdService, locker, clock, claim.Config{
		Location:       location,
		StorageTimeout: utils.GetConfigDuration("STORAGE_TIMEOUT", claim.DefaultStorageTimeout),
		Approval:       approvalPolicy(),
	})
	requestService := request.NewRequestService(requestRepository, householdService, location)

	// Handler
	donationHandler := handlers.NewDonationHandler(donationService, householdService, validator)
	claimHandler := handlers.NewClaimHandler(claimService, validator)
	householdHandler := handlers.NewHouseholdHandler(householdService, validator)
	requestHandler := handlers.NewRequestHandler(requestService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		DonationHandler:  donationHandler,
		ClaimHandler:     claimHandler,
		HouseholdHandler: householdHandler,
		RequestHandler:   requestHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

// newLocker serialises claims through Redis when several API instances share
// the database, and in process otherwise.
func newLocker() (claim.Locker, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return claim.NewKeyedMutex(), nil
	}

	client, err := claim.NewRedisClient(addr, utils.GetConfig("REDIS_PASSWORD"), utils.GetConfigInt("REDIS_DB", 0))
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", addr).Msg("using redis claim locks")
	return claim.NewRedisLocker(client, lockTTL), nil
}

func approvalPolicy() claim.ApprovalPolicy {
	if utils.GetConfig("APPROVAL_MODE") == "manual" {
		return claim.ManualReview{}
	}
	return claim.AutoApprove{}
}
