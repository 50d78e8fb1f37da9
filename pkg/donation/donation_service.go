package donation

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"Food-Share-Backend/internal/utils"
	"Food-Share-Backend/internal/utils/storage"
	"Food-Share-Backend/pkg/application"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type (
	DonationService interface {
		CreateDonation(ctx context.Context, req domain.DonationRequest, donorID string) (*domain.Donation, error)
		// GetDonations lists the pool. householdID is optional; when set the
		// listing also says which donations that household already applied for.
		GetDonations(ctx context.Context, householdID string) (*domain.DonationListing, error)
		GetDonationByID(ctx context.Context, id string) (*domain.Donation, error)
		GetDonorDonations(ctx context.Context, donorID string) ([]*domain.Donation, error)
		CompleteDonation(ctx context.Context, id string, userID string) error
		Snapshot(ctx context.Context) (*Snapshot, error)
	}

	donationService struct {
		donationRepository DonationRepository
		ledger             *application.Ledger
		s3                 storage.AwsS3
		clock              utils.Clock
		location           *time.Location
	}
)

func NewDonationService(donationRepository DonationRepository, ledger *application.Ledger, s3 storage.AwsS3, clock utils.Clock, location *time.Location) DonationService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if location == nil {
		location = time.UTC
	}
	return &donationService{
		donationRepository: donationRepository,
		ledger:             ledger,
		s3:                 s3,
		clock:              clock,
		location:           location,
	}
}

func (s *donationService) CreateDonation(ctx context.Context, req domain.DonationRequest, donorID string) (*domain.Donation, error) {
	if req.OriginalQuantity <= 0 {
		return nil, domain.ErrInvalidDonationQuantity
	}

	var expiration *time.Time
	if req.ExpirationDate != "" {
		// end of the expiry day in the pickup region
		day, err := time.ParseInLocation(domain.DateLayout, req.ExpirationDate, s.location)
		if err != nil {
			return nil, domain.ErrInvalidExpirationDate
		}
		end := day.Add(24*time.Hour - time.Second)
		expiration = &end
	}

	donationID := uuid.New()

	// Process food image if provided
	var imageURL string
	if req.FoodImage != nil {
		if s.s3 == nil {
			log.Warn().Str("donation_id", donationID.String()).Msg("image storage not configured, dropping food image")
		} else {
			objectKey, err := s.s3.UploadFile(
				fmt.Sprintf("donation-%s", donationID.String()),
				req.FoodImage,
				"donations",
				storage.AllowImage...,
			)
			if err != nil {
				return nil, err
			}
			imageURL = s.s3.GetPublicLinkKey(objectKey)
		}
	}

	remaining := req.OriginalQuantity
	donation := &entities.Donation{
		ID:                donationID,
		DonorID:           donorID,
		DonorName:         strings.TrimSpace(req.DonorName),
		FoodItem:          strings.TrimSpace(req.FoodItem),
		Location:          strings.TrimSpace(req.Location),
		Description:       req.Description,
		ContactInfo:       strings.TrimSpace(req.ContactInfo),
		ImageURL:          imageURL,
		OriginalQuantity:  req.OriginalQuantity,
		RemainingQuantity: &remaining,
		Status:            domain.DonationStatusAvailable,
		ExpirationDate:    expiration,
	}

	if err := s.donationRepository.CreateDonation(ctx, donation); err != nil {
		if imageURL != "" {
			_ = s.s3.DeleteFile(s.s3.GetObjectKeyFromLink(imageURL))
		}
		return nil, err
	}

	view := DeriveView(*donation, s.clock.Now())
	return ToDomain(&view), nil
}

func (s *donationService) Snapshot(ctx context.Context) (*Snapshot, error) {
	raws, err := s.donationRepository.GetDonations(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(raws, s.clock.Now()), nil
}

func (s *donationService) GetDonations(ctx context.Context, householdID string) (*domain.DonationListing, error) {
	var (
		snapshot   *Snapshot
		appliedIDs []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.Snapshot(gctx)
		return err
	})
	if householdID != "" {
		g.Go(func() error {
			var err error
			appliedIDs, err = s.ledger.AppliedDonationIDs(gctx, householdID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	donations := snapshot.Donations()
	result := make([]*domain.Donation, 0, len(donations))
	for i := range donations {
		result = append(result, ToDomain(&donations[i]))
	}

	return &domain.DonationListing{
		Donations:          result,
		AppliedDonationIDs: appliedIDs,
		Skipped:            snapshot.Skipped(),
	}, nil
}

func (s *donationService) GetDonationByID(ctx context.Context, id string) (*domain.Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	view := DeriveView(*donation, s.clock.Now())
	return ToDomain(&view), nil
}

func (s *donationService) GetDonorDonations(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	donations, err := s.donationRepository.GetDonorDonations(ctx, donorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := make([]*domain.Donation, 0, len(donations))
	for i := range donations {
		view := DeriveView(donations[i], now)
		result = append(result, ToDomain(&view))
	}
	return result, nil
}

func (s *donationService) CompleteDonation(ctx context.Context, id string, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrParseUUID
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDonationNotFound
		}
		return err
	}

	// Check if user is authorized to update this donation
	if donation.DonorID != userID {
		return domain.ErrUnauthorizedDonationAccess
	}

	if donation.Status == domain.DonationStatusCompleted {
		return nil
	}

	if err := s.donationRepository.UpdateDonationStatus(ctx, id, domain.DonationStatusCompleted); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDonationNotFound
		}
		return err
	}
	return nil
}
