package household

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/internal/testutil"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHousehold(t *testing.T) {
	service := NewHouseholdService(NewHouseholdRepository(testutil.NewTestDB(t)))
	ctx := context.Background()

	created, err := service.RegisterHousehold(ctx, domain.RegisterHouseholdRequest{
		HouseholdName:     "  Keluarga Budi ",
		MemberCount:       8,
		AuthorizedMembers: []string{"siti", "alice", "", "siti"},
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, "Keluarga Budi", created.HouseholdName)
	assert.Equal(t, domain.HouseholdClassLarge, created.Class)
	assert.Equal(t, 0.35, created.AllocationPercentage)
	assert.Equal(t, []string{"siti"}, created.AuthorizedMembers)

	_, err = service.RegisterHousehold(ctx, domain.RegisterHouseholdRequest{HouseholdName: "Empty", MemberCount: 0}, "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidMemberCount)
}

func TestGetUserHouseholds(t *testing.T) {
	service := NewHouseholdService(NewHouseholdRepository(testutil.NewTestDB(t)))
	ctx := context.Background()

	_, err := service.RegisterHousehold(ctx, domain.RegisterHouseholdRequest{HouseholdName: "A", MemberCount: 2, AuthorizedMembers: []string{"bob"}}, "alice")
	require.NoError(t, err)
	_, err = service.RegisterHousehold(ctx, domain.RegisterHouseholdRequest{HouseholdName: "B", MemberCount: 4}, "bob")
	require.NoError(t, err)

	bobs, err := service.GetUserHouseholds(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobs, 2)

	alices, err := service.GetUserHouseholds(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "A", alices[0].HouseholdName)

	strangers, err := service.GetUserHouseholds(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, strangers)
}

func TestAuthorize(t *testing.T) {
	service := NewHouseholdService(NewHouseholdRepository(testutil.NewTestDB(t)))
	ctx := context.Background()

	created, err := service.RegisterHousehold(ctx, domain.RegisterHouseholdRequest{HouseholdName: "A", MemberCount: 3, AuthorizedMembers: []string{"bob"}}, "alice")
	require.NoError(t, err)

	for _, user := range []string{"alice", "bob"} {
		h, err := service.Authorize(ctx, created.ID, user)
		require.NoError(t, err)
		assert.Equal(t, 3, h.MemberCount)
	}

	_, err = service.Authorize(ctx, created.ID, "mallory")
	assert.ErrorIs(t, err, domain.ErrHouseholdAccessDenied)

	_, err = service.Authorize(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrHouseholdAccessDenied)

	_, err = service.Authorize(ctx, uuid.NewString(), "alice")
	assert.ErrorIs(t, err, domain.ErrHouseholdNotFound)

	_, err = service.Authorize(ctx, "bad", "alice")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
