package claim

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"Food-Share-Backend/internal/testutil"
	"Food-Share-Backend/internal/utils"
	"Food-Share-Backend/pkg/application"
	"Food-Share-Backend/pkg/donation"
	"Food-Share-Backend/pkg/household"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db          *gorm.DB
	donations   donation.DonationRepository
	households  household.HouseholdRepository
	ledger      *application.Ledger
	clock       *utils.FixedClock
	service     ClaimService
	donationRaw func(t *testing.T, id uuid.UUID) *entities.Donation
}

func newFixture(t *testing.T, cfg Config) *fixture {
	return newFixtureWithRepo(t, cfg, nil)
}

func newFixtureWithRepo(t *testing.T, cfg Config, wrap func(donation.DonationRepository) donation.DonationRepository) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	donations := donation.NewDonationRepository(db)
	households := household.NewHouseholdRepository(db)
	ledger := application.NewLedger(application.NewApplicationRepository(db))
	clock := utils.NewFixedClock(testNow)

	repo := donations
	if wrap != nil {
		repo = wrap(donations)
	}

	f := &fixture{
		db:         db,
		donations:  donations,
		households: households,
		ledger:     ledger,
		clock:      clock,
		service: NewClaimService(
			db, repo, ledger,
			household.NewHouseholdService(households),
			NewKeyedMutex(), clock, cfg,
		),
	}
	f.donationRaw = func(t *testing.T, id uuid.UUID) *entities.Donation {
		d, err := donations.GetDonationByID(context.Background(), id.String())
		require.NoError(t, err)
		return d
	}
	return f
}

func (f *fixture) household(t *testing.T, registrant string, members int, authorized ...string) *entities.Household {
	t.Helper()
	h := &entities.Household{
		ID:            uuid.New(),
		HouseholdName: "House of " + registrant,
		MemberCount:   members,
		RegistrantID:  registrant,
	}
	for _, userID := range authorized {
		h.Members = append(h.Members, &entities.HouseholdMember{ID: uuid.New(), HouseholdID: h.ID, UserID: userID})
	}
	require.NoError(t, f.households.CreateHousehold(context.Background(), h))
	return h
}

func (f *fixture) donation(t *testing.T, donor string, original int) *entities.Donation {
	t.Helper()
	remaining := original
	d := &entities.Donation{
		ID:                uuid.New(),
		DonorID:           donor,
		DonorName:         "Donor " + donor,
		FoodItem:          "Vegetable soup",
		Location:          "Community hall",
		ContactInfo:       "0812000000",
		OriginalQuantity:  original,
		RemainingQuantity: &remaining,
		Status:            domain.DonationStatusAvailable,
	}
	require.NoError(t, f.donations.CreateDonation(context.Background(), d))
	return d
}

func claimOf(d *entities.Donation, h *entities.Household, requester string, qty int) ClaimRequest {
	return ClaimRequest{
		DonationID:  d.ID.String(),
		HouseholdID: h.ID.String(),
		RequesterID: requester,
		Quantity:    qty,
	}
}

func requireReason(t *testing.T, err error, reason domain.RejectionReason) {
	t.Helper()
	rejection, ok := domain.AsRejection(err)
	require.True(t, ok, "expected rejection %s, got %v", reason, err)
	assert.Equal(t, reason, rejection.Reason)
}

func TestCommitApprovesWithinCaps(t *testing.T) {
	f := newFixture(t, Config{})
	h := f.household(t, "alice", 3)
	d := f.donation(t, "donor", 10)

	result, err := f.service.Commit(context.Background(), claimOf(d, h, "alice", 3))
	require.NoError(t, err)

	assert.Equal(t, 7, result.Donation.Remaining())
	assert.Equal(t, domain.DonationStatusPartiallyClaimed, result.Donation.Status)
	assert.Equal(t, domain.ApplicationStatusApproved, result.Application.Status)
	assert.Equal(t, "2026-03-10", result.Application.ApplicationDate)

	stored := f.donationRaw(t, d.ID)
	assert.Equal(t, 7, stored.Remaining())
	assert.Equal(t, domain.DonationStatusPartiallyClaimed, stored.Status)
	assert.Equal(t, 1, stored.Version)
	require.Len(t, stored.Applicants, 1)
	assert.Equal(t, "alice", stored.Applicants[0].ApplicantID)
	assert.Equal(t, h.ID, stored.Applicants[0].HouseholdID)

	consumed, err := f.ledger.ConsumedToday(context.Background(), h.ID.String(), "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 3, consumed)
}

func TestCommitSmallRemainderEmptiesDonation(t *testing.T) {
	f := newFixture(t, Config{})
	first := f.household(t, "alice", 3)
	second := f.household(t, "bob", 3)
	third := f.household(t, "carol", 3)
	d := f.donation(t, "donor", 8)

	_, err := f.service.Commit(context.Background(), claimOf(d, first, "alice", 3))
	require.NoError(t, err)
	_, err = f.service.Commit(context.Background(), claimOf(d, second, "bob", 3))
	require.NoError(t, err)

	result, err := f.service.Commit(context.Background(), claimOf(d, third, "carol", 2))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Donation.Remaining())
	assert.Equal(t, domain.DonationStatusFullyBooked, result.Donation.Status)
}

func TestCommitRejections(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	t.Run("self claim", func(t *testing.T) {
		h := f.household(t, "donor-self", 2)
		d := f.donation(t, "donor-self", 10)
		_, err := f.service.Commit(ctx, claimOf(d, h, "donor-self", 1))
		requireReason(t, err, domain.ReasonSelfClaim)
	})

	t.Run("duplicate application", func(t *testing.T) {
		h := f.household(t, "dup", 2)
		d := f.donation(t, "donor", 10)
		_, err := f.service.Commit(ctx, claimOf(d, h, "dup", 1))
		require.NoError(t, err)

		_, err = f.service.Commit(ctx, claimOf(d, h, "dup", 1))
		requireReason(t, err, domain.ReasonDuplicateApplication)
		assert.Equal(t, 9, f.donationRaw(t, d.ID).Remaining())
	})

	t.Run("exceeds donation cap", func(t *testing.T) {
		h := f.household(t, "greedy", 3)
		d := f.donation(t, "donor", 10)
		_, err := f.service.Commit(ctx, claimOf(d, h, "greedy", 4))
		requireReason(t, err, domain.ReasonExceedsDonationCap)
		assert.Equal(t, 10, f.donationRaw(t, d.ID).Remaining())
	})

	t.Run("insufficient quantity", func(t *testing.T) {
		h := f.household(t, "late", 3)
		d := f.donation(t, "donor", 2)
		_, err := f.service.Commit(ctx, claimOf(d, h, "late", 3))
		requireReason(t, err, domain.ReasonInsufficientQuantity)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		h := f.household(t, "zero", 3)
		d := f.donation(t, "donor", 10)
		_, err := f.service.Commit(ctx, claimOf(d, h, "zero", 0))
		requireReason(t, err, domain.ReasonInvalidQuantity)
	})

	t.Run("completed donation", func(t *testing.T) {
		h := f.household(t, "closed", 3)
		d := f.donation(t, "donor", 10)
		require.NoError(t, f.donations.UpdateDonationStatus(ctx, d.ID.String(), domain.DonationStatusCompleted))
		_, err := f.service.Commit(ctx, claimOf(d, h, "closed", 1))
		requireReason(t, err, domain.ReasonDonationClosed)
	})
}

func TestCommitNonRejectionErrors(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	h := f.household(t, "alice", 3, "alice-partner")
	d := f.donation(t, "donor", 10)

	_, err := f.service.Commit(ctx, claimOf(d, h, "mallory", 1))
	assert.ErrorIs(t, err, domain.ErrHouseholdAccessDenied)

	_, err = f.service.Commit(ctx, ClaimRequest{DonationID: uuid.NewString(), HouseholdID: h.ID.String(), RequesterID: "alice", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)

	_, err = f.service.Commit(ctx, ClaimRequest{DonationID: "not-a-uuid", HouseholdID: h.ID.String(), RequesterID: "alice", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrParseUUID)

	_, err = f.service.Commit(ctx, ClaimRequest{DonationID: d.ID.String(), HouseholdID: uuid.NewString(), RequesterID: "alice", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrHouseholdNotFound)

	// an authorised member claims for the household
	result, err := f.service.Commit(ctx, claimOf(d, h, "alice-partner", 2))
	require.NoError(t, err)
	assert.Equal(t, "alice-partner", result.Application.ApplicantID)
}

func TestCommitDailyCap(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	h := f.household(t, "alice", 3)

	// pool of 16 servings puts the daily cap at its floor of five
	first := f.donation(t, "donor", 8)
	second := f.donation(t, "donor", 8)

	_, err := f.service.Commit(ctx, claimOf(first, h, "alice", 3))
	require.NoError(t, err)

	_, err = f.service.Commit(ctx, claimOf(second, h, "alice", 3))
	requireReason(t, err, domain.ReasonExceedsDailyCap)

	_, err = f.service.Commit(ctx, claimOf(second, h, "alice", 2))
	require.NoError(t, err)

	// the next day starts a fresh bucket
	f.clock.Advance(24 * time.Hour)
	third := f.donation(t, "donor", 4)
	_, err = f.service.Commit(ctx, claimOf(third, h, "alice", 2))
	require.NoError(t, err)
}

func TestCommitManualReviewReservesQuantity(t *testing.T) {
	f := newFixture(t, Config{Approval: ManualReview{}})
	h := f.household(t, "alice", 3)
	d := f.donation(t, "donor", 10)

	result, err := f.service.Commit(context.Background(), claimOf(d, h, "alice", 3))
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, result.Application.Status)
	assert.Equal(t, 7, f.donationRaw(t, d.ID).Remaining())

	consumed, err := f.ledger.ConsumedToday(context.Background(), h.ID.String(), "2026-03-10")
	require.NoError(t, err)
	assert.Zero(t, consumed)

	// pending still blocks a second application
	_, err = f.service.Commit(context.Background(), claimOf(d, h, "alice", 1))
	requireReason(t, err, domain.ReasonDuplicateApplication)
}

type conflictingRepo struct {
	donation.DonationRepository
	conflicts *int32
}

func (r conflictingRepo) WithTx(tx *gorm.DB) donation.DonationRepository {
	return conflictingRepo{DonationRepository: r.DonationRepository.WithTx(tx), conflicts: r.conflicts}
}

func (r conflictingRepo) UpdateClaimState(ctx context.Context, id uuid.UUID, remaining int, status string, version int) error {
	if atomic.AddInt32(r.conflicts, -1) >= 0 {
		return domain.ErrConcurrentWrite
	}
	return r.DonationRepository.UpdateClaimState(ctx, id, remaining, status, version)
}

func withConflicts(n int32) func(donation.DonationRepository) donation.DonationRepository {
	return func(repo donation.DonationRepository) donation.DonationRepository {
		return conflictingRepo{DonationRepository: repo, conflicts: &n}
	}
}

func TestCommitRetriesOneConflict(t *testing.T) {
	f := newFixtureWithRepo(t, Config{}, withConflicts(1))
	h := f.household(t, "alice", 3)
	d := f.donation(t, "donor", 10)

	result, err := f.service.Commit(context.Background(), claimOf(d, h, "alice", 2))
	require.NoError(t, err)
	assert.Equal(t, 8, result.Donation.Remaining())

	history, err := f.ledger.History(context.Background(), h.ID.String())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCommitRepeatedConflictIsInfrastructureFailure(t *testing.T) {
	f := newFixtureWithRepo(t, Config{}, withConflicts(2))
	h := f.household(t, "alice", 3)
	d := f.donation(t, "donor", 10)

	_, err := f.service.Commit(context.Background(), claimOf(d, h, "alice", 2))
	require.Error(t, err)
	assert.True(t, domain.IsInfrastructureFailure(err))
	assert.ErrorIs(t, err, domain.ErrConcurrentWrite)
	_, isRejection := domain.AsRejection(err)
	assert.False(t, isRejection)

	assert.Equal(t, 10, f.donationRaw(t, d.ID).Remaining())
	history, err := f.ledger.History(context.Background(), h.ID.String())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCommitStorageFailureIsInfrastructureFailure(t *testing.T) {
	f := newFixture(t, Config{})
	h := f.household(t, "alice", 3)
	d := f.donation(t, "donor", 10)

	require.NoError(t, f.db.Migrator().DropTable(&entities.Application{}))

	_, err := f.service.Commit(context.Background(), claimOf(d, h, "alice", 2))
	require.Error(t, err)
	assert.True(t, domain.IsInfrastructureFailure(err))
	assert.Equal(t, 10, f.donationRaw(t, d.ID).Remaining())
}

func TestConcurrentCommitsNeverOversubscribe(t *testing.T) {
	f := newFixture(t, Config{})
	d := f.donation(t, "donor", 10)

	const claimants = 8
	households := make([]*entities.Household, claimants)
	for i := range households {
		households[i] = f.household(t, fmt.Sprintf("user-%d", i), 3)
	}

	var (
		wg        sync.WaitGroup
		succeeded int32
		errs      = make(chan error, claimants)
	)
	for i := range households {
		wg.Add(1)
		go func(h *entities.Household) {
			defer wg.Done()
			_, err := f.service.Commit(context.Background(), claimOf(d, h, h.RegistrantID, 3))
			if err != nil {
				errs <- err
				return
			}
			atomic.AddInt32(&succeeded, 1)
		}(households[i])
	}
	wg.Wait()
	close(errs)

	// three claims of three fit, the fourth finds one serving left
	assert.EqualValues(t, 3, succeeded)
	for err := range errs {
		requireReason(t, err, domain.ReasonInsufficientQuantity)
	}

	stored := f.donationRaw(t, d.ID)
	assert.Equal(t, 1, stored.Remaining())
	assert.Len(t, stored.Applicants, 3)

	claimed := 0
	for _, a := range stored.Applicants {
		claimed += a.Quantity
	}
	assert.Equal(t, stored.OriginalQuantity-stored.Remaining(), claimed)
}

func TestConcurrentCommitsSameHouseholdApplyOnce(t *testing.T) {
	f := newFixture(t, Config{})
	h := f.household(t, "alice", 4, "bob", "carol")
	d := f.donation(t, "donor", 20)

	requesters := []string{"alice", "bob", "carol", "alice", "bob"}
	var (
		wg        sync.WaitGroup
		succeeded int32
		mu        sync.Mutex
		failures  []error
	)
	for _, requester := range requesters {
		wg.Add(1)
		go func(requester string) {
			defer wg.Done()
			_, err := f.service.Commit(context.Background(), claimOf(d, h, requester, 1))
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			atomic.AddInt32(&succeeded, 1)
		}(requester)
	}
	wg.Wait()

	assert.EqualValues(t, 1, succeeded)
	require.Len(t, failures, len(requesters)-1)
	for _, err := range failures {
		requireReason(t, err, domain.ReasonDuplicateApplication)
	}
	assert.Equal(t, 19, f.donationRaw(t, d.ID).Remaining())
}

func TestApplyReturnsDomainViews(t *testing.T) {
	f := newFixture(t, Config{})
	h := f.household(t, "alice", 8)
	d := f.donation(t, "donor", 20)

	resp, err := f.service.Apply(context.Background(), d.ID.String(), domain.ApplyRequest{HouseholdID: h.ID.String(), Quantity: 6}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 14, resp.Donation.RemainingQuantity)
	assert.Equal(t, domain.DonationStatusPartiallyClaimed, resp.Donation.Status)
	require.Len(t, resp.Donation.Applicants, 1)
	assert.Equal(t, 6, resp.Application.Quantity)
	assert.Equal(t, h.ID.String(), resp.Application.HouseholdID)
}

func TestPreview(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	h := f.household(t, "alice", 3)
	d := f.donation(t, "donor", 10)

	allowance, err := f.service.Preview(ctx, d.ID.String(), h.ID.String(), "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.HouseholdClassRegular, allowance.HouseholdClass)
	assert.Equal(t, 3, allowance.MaxClaimable)
	assert.Equal(t, 5, allowance.DailyCap)
	assert.Equal(t, 1, allowance.StepperMin)
	assert.Equal(t, 3, allowance.StepperMax)
	assert.False(t, allowance.HasApplied)
	assert.NotEmpty(t, allowance.Explanation)

	_, err = f.service.Commit(ctx, claimOf(d, h, "alice", 3))
	require.NoError(t, err)

	allowance, err = f.service.Preview(ctx, d.ID.String(), h.ID.String(), "alice")
	require.NoError(t, err)
	assert.True(t, allowance.HasApplied)
	assert.Equal(t, 3, allowance.ConsumedToday)
	assert.Zero(t, allowance.StepperMin)
	assert.Zero(t, allowance.StepperMax)
	assert.Equal(t, domain.ErrDuplicateApplication.Message, allowance.Explanation)
}

func TestPreviewLimitedByDailyRemainder(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	h := f.household(t, "alice", 3)
	first := f.donation(t, "donor", 8)
	second := f.donation(t, "donor", 8)

	_, err := f.service.Commit(ctx, claimOf(first, h, "alice", 3))
	require.NoError(t, err)

	allowance, err := f.service.Preview(ctx, second.ID.String(), h.ID.String(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, allowance.MaxClaimable)
	assert.Equal(t, 2, allowance.StepperMax)
}

func TestPreviewOwnDonation(t *testing.T) {
	f := newFixture(t, Config{})
	h := f.household(t, "donor", 2)
	d := f.donation(t, "donor", 10)

	allowance, err := f.service.Preview(context.Background(), d.ID.String(), h.ID.String(), "donor")
	require.NoError(t, err)
	assert.Zero(t, allowance.StepperMax)
	assert.Equal(t, domain.ErrSelfClaim.Message, allowance.Explanation)
}

func TestGetHouseholdApplications(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	h := f.household(t, "alice", 3)
	first := f.donation(t, "donor", 10)
	second := f.donation(t, "donor", 10)

	_, err := f.service.Commit(ctx, claimOf(first, h, "alice", 1))
	require.NoError(t, err)
	_, err = f.service.Commit(ctx, claimOf(second, h, "alice", 2))
	require.NoError(t, err)

	applications, err := f.service.GetHouseholdApplications(ctx, h.ID.String(), "alice")
	require.NoError(t, err)
	assert.Len(t, applications, 2)

	_, err = f.service.GetHouseholdApplications(ctx, h.ID.String(), "mallory")
	assert.True(t, errors.Is(err, domain.ErrHouseholdAccessDenied))
}
