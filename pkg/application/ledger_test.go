package application

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"Food-Share-Backend/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(householdID, donationID uuid.UUID, qty int, day, status string) *entities.Application {
	return &entities.Application{
		ID:              uuid.New(),
		DonationID:      donationID,
		HouseholdID:     householdID,
		ApplicantID:     "alice",
		Quantity:        qty,
		ApplicationDate: day,
		Status:          status,
	}
}

func TestDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	late := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-10", Day(late, nil))
	assert.Equal(t, "2026-03-11", Day(late, jakarta))
}

func TestLedgerConsumedToday(t *testing.T) {
	ledger := NewLedger(NewApplicationRepository(testutil.NewTestDB(t)))
	ctx := context.Background()
	household := uuid.New()
	other := uuid.New()

	for _, a := range []*entities.Application{
		entry(household, uuid.New(), 2, "2026-03-10", domain.ApplicationStatusApproved),
		entry(household, uuid.New(), 1, "2026-03-10", domain.ApplicationStatusCompleted),
		entry(household, uuid.New(), 4, "2026-03-10", domain.ApplicationStatusPending),
		entry(household, uuid.New(), 3, "2026-03-10", domain.ApplicationStatusRejected),
		entry(household, uuid.New(), 5, "2026-03-09", domain.ApplicationStatusApproved),
		entry(other, uuid.New(), 5, "2026-03-10", domain.ApplicationStatusApproved),
	} {
		require.NoError(t, ledger.Record(ctx, a))
	}

	consumed, err := ledger.ConsumedToday(ctx, household.String(), "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 3, consumed)

	none, err := ledger.ConsumedToday(ctx, uuid.NewString(), "2026-03-10")
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestLedgerHasApplied(t *testing.T) {
	ledger := NewLedger(NewApplicationRepository(testutil.NewTestDB(t)))
	ctx := context.Background()
	household := uuid.New()
	applied := uuid.New()
	rejected := uuid.New()

	require.NoError(t, ledger.Record(ctx, entry(household, applied, 1, "2026-03-10", domain.ApplicationStatusPending)))
	require.NoError(t, ledger.Record(ctx, entry(household, rejected, 1, "2026-03-10", domain.ApplicationStatusRejected)))

	ok, err := ledger.HasApplied(ctx, household.String(), applied.String())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.HasApplied(ctx, household.String(), rejected.String())
	require.NoError(t, err)
	assert.False(t, ok, "a rejected application does not block a new one")

	ids, err := ledger.AppliedDonationIDs(ctx, household.String())
	require.NoError(t, err)
	assert.Equal(t, []string{applied.String()}, ids)
}

func TestLedgerRecordValidates(t *testing.T) {
	ledger := NewLedger(NewApplicationRepository(testutil.NewTestDB(t)))
	ctx := context.Background()

	err := ledger.Record(ctx, entry(uuid.New(), uuid.New(), 0, "2026-03-10", domain.ApplicationStatusApproved))
	assert.ErrorIs(t, err, domain.ErrInvalidClaimQuantity)

	assert.Error(t, ledger.Record(ctx, entry(uuid.New(), uuid.New(), 1, "2026-03-10", "maybe")))
	assert.Error(t, ledger.Record(ctx, entry(uuid.New(), uuid.New(), 1, "", domain.ApplicationStatusApproved)))
}

func TestLedgerHistory(t *testing.T) {
	ledger := NewLedger(NewApplicationRepository(testutil.NewTestDB(t)))
	ctx := context.Background()
	household := uuid.New()

	require.NoError(t, ledger.Record(ctx, entry(household, uuid.New(), 1, "2026-03-09", domain.ApplicationStatusApproved)))
	require.NoError(t, ledger.Record(ctx, entry(household, uuid.New(), 2, "2026-03-10", domain.ApplicationStatusApproved)))
	require.NoError(t, ledger.Record(ctx, entry(uuid.New(), uuid.New(), 2, "2026-03-10", domain.ApplicationStatusApproved)))

	history, err := ledger.History(ctx, household.String())
	require.NoError(t, err)
	require.Len(t, history, 2)

	view := ToDomain(history[0])
	assert.Equal(t, household.String(), view.HouseholdID)
	assert.Equal(t, "alice", view.ApplicantID)
}
