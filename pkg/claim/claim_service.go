// Package claim commits household claims against donations. A commit
// re-reads the donation inside a database transaction, re-runs the
// allocation rules on that fresh state, and writes the new quantity, the
// applicant entry and the ledger record together.
package claim

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"Food-Share-Backend/internal/utils"
	"Food-Share-Backend/pkg/allocation"
	"Food-Share-Backend/pkg/application"
	"Food-Share-Backend/pkg/donation"
	"Food-Share-Backend/pkg/household"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DefaultStorageTimeout = 5 * time.Second

	// a lost compare-and-swap is retried once on re-read state
	maxCommitAttempts = 2
)

type (
	ClaimRequest struct {
		DonationID  string
		HouseholdID string
		RequesterID string
		Quantity    int
	}

	CommitResult struct {
		Donation    *entities.Donation
		Application *entities.Application
	}

	Config struct {
		Location       *time.Location
		StorageTimeout time.Duration
		Approval       ApprovalPolicy
	}

	ClaimService interface {
		Commit(ctx context.Context, req ClaimRequest) (*CommitResult, error)
		Apply(ctx context.Context, donationID string, req domain.ApplyRequest, requesterID string) (*domain.ApplyResponse, error)
		Preview(ctx context.Context, donationID, householdID, requesterID string) (*domain.Allowance, error)
		GetHouseholdApplications(ctx context.Context, householdID, requesterID string) ([]*domain.Application, error)
	}

	claimService struct {
		db                 *gorm.DB
		donationRepository donation.DonationRepository
		ledger             *application.Ledger
		householdService   household.HouseholdService
		locker             Locker
		clock              utils.Clock
		location           *time.Location
		storageTimeout     time.Duration
		approval           ApprovalPolicy
	}
)

func NewClaimService(
	db *gorm.DB,
	donationRepository donation.DonationRepository,
	ledger *application.Ledger,
	householdService household.HouseholdService,
	locker Locker,
	clock utils.Clock,
	cfg Config,
) ClaimService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = DefaultStorageTimeout
	}
	if cfg.Approval == nil {
		cfg.Approval = AutoApprove{}
	}
	if locker == nil {
		locker = NewKeyedMutex()
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}

	return &claimService{
		db:                 db,
		donationRepository: donationRepository,
		ledger:             ledger,
		householdService:   householdService,
		locker:             locker,
		clock:              clock,
		location:           cfg.Location,
		storageTimeout:     cfg.StorageTimeout,
		approval:           cfg.Approval,
	}
}

func (s *claimService) Commit(ctx context.Context, req ClaimRequest) (*CommitResult, error) {
	donationUUID, err := uuid.Parse(req.DonationID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	req.DonationID = donationUUID.String()

	hh, err := s.householdService.Authorize(ctx, req.HouseholdID, req.RequesterID)
	if err != nil {
		return nil, s.classify("authorize household", err)
	}

	// household before donation on every path
	unlockHousehold, err := s.locker.Lock(ctx, householdKey(hh.ID.String()))
	if err != nil {
		return nil, s.classify("lock household", err)
	}
	defer unlockHousehold()

	unlockDonation, err := s.locker.Lock(ctx, donationKey(req.DonationID))
	if err != nil {
		return nil, s.classify("lock donation", err)
	}
	defer unlockDonation()

	var result *CommitResult
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		result, err = s.commitOnce(ctx, req, hh)
		if !errors.Is(err, domain.ErrConcurrentWrite) {
			break
		}
		log.Warn().
			Str("donation_id", req.DonationID).
			Str("household_id", req.HouseholdID).
			Int("attempt", attempt).
			Msg("concurrent write on donation")
	}
	if err != nil {
		return nil, s.classify("commit claim", err)
	}

	log.Info().
		Str("donation_id", req.DonationID).
		Str("household_id", req.HouseholdID).
		Int("quantity", req.Quantity).
		Int("remaining", result.Donation.Remaining()).
		Str("status", result.Application.Status).
		Msg("claim committed")
	return result, nil
}

func (s *claimService) commitOnce(ctx context.Context, req ClaimRequest, hh *entities.Household) (*CommitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	now := s.clock.Now()
	day := application.Day(now, s.location)
	householdID := hh.ID.String()

	var result *CommitResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donations := s.donationRepository.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		raw, err := donations.GetDonationByID(ctx, req.DonationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDonationNotFound
			}
			return err
		}
		view := donation.DeriveView(*raw, now)

		if view.DonorID == req.RequesterID {
			return domain.ErrSelfClaim
		}

		applied, err := ledger.HasApplied(ctx, householdID, req.DonationID)
		if err != nil {
			return err
		}
		consumed, err := ledger.ConsumedToday(ctx, householdID, day)
		if err != nil {
			return err
		}
		total, err := donations.SumOriginalQuantity(ctx)
		if err != nil {
			return err
		}

		if err := allocation.ValidateClaim(allocation.ClaimCheck{
			Donation:               &view,
			MemberCount:            hh.MemberCount,
			RequestedQty:           req.Quantity,
			DailyConsumedSoFar:     consumed,
			DailyCap:               allocation.DailyCap(total),
			HasExistingApplication: applied,
		}); err != nil {
			return err
		}

		status := s.approval.Decide(ctx, &view, hh, req.Quantity)
		if status != domain.ApplicationStatusApproved && status != domain.ApplicationStatusPending {
			return fmt.Errorf("approval policy returned unsupported status %q", status)
		}

		remaining := max(0, view.Remaining()-req.Quantity)
		donationStatus := donation.StatusFor(remaining, view.OriginalQuantity)
		if err := donations.UpdateClaimState(ctx, view.ID, remaining, donationStatus, raw.Version); err != nil {
			return err
		}

		applicant := &entities.DonationApplicant{
			ID:          uuid.New(),
			DonationID:  view.ID,
			ApplicantID: req.RequesterID,
			HouseholdID: hh.ID,
			Quantity:    req.Quantity,
			AppliedAt:   now,
			Status:      status,
		}
		if err := donations.AddApplicant(ctx, applicant); err != nil {
			return err
		}

		app := &entities.Application{
			ID:              uuid.New(),
			DonationID:      view.ID,
			HouseholdID:     hh.ID,
			ApplicantID:     req.RequesterID,
			Quantity:        req.Quantity,
			ApplicationDate: day,
			Status:          status,
		}
		if err := ledger.Record(ctx, app); err != nil {
			return err
		}

		view.RemainingQuantity = &remaining
		view.Status = donationStatus
		view.Version = raw.Version + 1
		view.Applicants = append(append([]*entities.DonationApplicant{}, view.Applicants...), applicant)
		result = &CommitResult{Donation: &view, Application: app}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// classify passes business outcomes through and turns everything else into
// an InfrastructureFailure, logging the detail the caller will not see.
func (s *claimService) classify(op string, err error) error {
	if _, ok := domain.AsRejection(err); ok {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrDonationNotFound),
		errors.Is(err, domain.ErrHouseholdNotFound),
		errors.Is(err, domain.ErrHouseholdAccessDenied),
		errors.Is(err, domain.ErrParseUUID):
		return err
	case domain.IsInfrastructureFailure(err):
		return err
	}

	log.Error().Err(err).Str("op", op).Msg("claim infrastructure failure")
	return &domain.InfrastructureFailure{Op: op, Err: err}
}

func (s *claimService) Apply(ctx context.Context, donationID string, req domain.ApplyRequest, requesterID string) (*domain.ApplyResponse, error) {
	result, err := s.Commit(ctx, ClaimRequest{
		DonationID:  donationID,
		HouseholdID: req.HouseholdID,
		RequesterID: requesterID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return nil, err
	}

	return &domain.ApplyResponse{
		Application: application.ToDomain(result.Application),
		Donation:    donation.ToDomain(result.Donation),
	}, nil
}

func (s *claimService) Preview(ctx context.Context, donationID, householdID, requesterID string) (*domain.Allowance, error) {
	donationUUID, err := uuid.Parse(donationID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	donationID = donationUUID.String()

	hh, err := s.householdService.Authorize(ctx, householdID, requesterID)
	if err != nil {
		return nil, s.classify("authorize household", err)
	}

	raw, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, s.classify("load donation", err)
	}

	now := s.clock.Now()
	view := donation.DeriveView(*raw, now)

	applied, err := s.ledger.HasApplied(ctx, hh.ID.String(), donationID)
	if err != nil {
		return nil, s.classify("check application", err)
	}
	consumed, err := s.ledger.ConsumedToday(ctx, hh.ID.String(), application.Day(now, s.location))
	if err != nil {
		return nil, s.classify("sum daily consumption", err)
	}
	total, err := s.donationRepository.SumOriginalQuantity(ctx)
	if err != nil {
		return nil, s.classify("sum pool", err)
	}

	maxClaimable := allocation.MaxClaimable(&view, hh.MemberCount)
	dailyCap := allocation.DailyCap(total)

	allowance := &domain.Allowance{
		DonationID:           view.ID.String(),
		HouseholdID:          hh.ID.String(),
		HouseholdClass:       household.Classify(hh.MemberCount),
		AllocationPercentage: household.AllocationPercentage(hh.MemberCount),
		MaxClaimable:         maxClaimable,
		DailyCap:             dailyCap,
		ConsumedToday:        consumed,
		HasApplied:           applied,
	}

	blocked := applied || view.DonorID == requesterID || view.Status == domain.DonationStatusCompleted
	if !blocked {
		allowance.StepperMin, allowance.StepperMax = allocation.StepperBounds(maxClaimable, view.Remaining(), dailyCap-consumed)
	}
	allowance.Explanation = explain(&view, hh, allowance, requesterID)
	return allowance, nil
}

func explain(d *entities.Donation, hh *entities.Household, a *domain.Allowance, requesterID string) string {
	switch {
	case d.DonorID == requesterID:
		return domain.ErrSelfClaim.Message
	case d.Status == domain.DonationStatusCompleted:
		return domain.ErrDonationClosed.Message
	case a.HasApplied:
		return domain.ErrDuplicateApplication.Message
	case a.StepperMax == 0 && d.Remaining() == 0:
		return "all servings of this donation have been claimed"
	case a.StepperMax == 0:
		return fmt.Sprintf("your household has reached today's limit of %d servings", a.DailyCap)
	case d.Remaining() <= allocation.SmallAmountThreshold:
		return fmt.Sprintf("only %d servings remain, so your household may take all of them", d.Remaining())
	}
	return fmt.Sprintf(
		"as a %s household of %d you may take up to %d%% of each donation (%d of %d servings here) and up to %d servings per day",
		a.HouseholdClass, hh.MemberCount, household.AllocationPercent(hh.MemberCount), a.MaxClaimable, d.OriginalQuantity, a.DailyCap,
	)
}

func (s *claimService) GetHouseholdApplications(ctx context.Context, householdID, requesterID string) ([]*domain.Application, error) {
	hh, err := s.householdService.Authorize(ctx, householdID, requesterID)
	if err != nil {
		return nil, s.classify("authorize household", err)
	}

	applications, err := s.ledger.History(ctx, hh.ID.String())
	if err != nil {
		return nil, s.classify("load applications", err)
	}

	result := make([]*domain.Application, 0, len(applications))
	for _, a := range applications {
		result = append(result, application.ToDomain(a))
	}
	return result, nil
}
