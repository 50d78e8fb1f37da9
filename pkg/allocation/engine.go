// Package allocation holds the rules deciding how much of a donation a
// household may claim. Everything here is pure; persistence and locking live
// in pkg/claim.
package allocation

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"Food-Share-Backend/pkg/household"
)

const (
	// SmallAmountThreshold is the remaining quantity at or below which the
	// whole remainder may be claimed regardless of the percentage cap.
	SmallAmountThreshold = 3

	MinimumDailyCap = 5
	dailyCapPercent = 30
)

// MaxClaimable is the per-donation cap for a household of memberCount people.
// The cap follows OriginalQuantity so it does not shrink as others claim.
func MaxClaimable(d *entities.Donation, memberCount int) int {
	remaining := d.Remaining()
	if remaining <= SmallAmountThreshold {
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return maxClaimableForPercent(d.OriginalQuantity, household.AllocationPercent(memberCount))
}

func maxClaimableForPercent(original, percent int) int {
	// ceil(original * percent / 100) without float rounding
	capped := (original*percent + 99) / 100
	if capped < 1 {
		return 1
	}
	return capped
}

// DailyCap is the most servings one household may claim per calendar day
// across every donation, given the summed original quantity of the pool.
func DailyCap(totalOriginalQuantity int) int {
	capped := totalOriginalQuantity * dailyCapPercent / 100
	if capped < MinimumDailyCap {
		return MinimumDailyCap
	}
	return capped
}

// TotalOriginalQuantity sums the pool a daily cap is computed from.
func TotalOriginalQuantity(donations []entities.Donation) int {
	total := 0
	for i := range donations {
		total += donations[i].OriginalQuantity
	}
	return total
}

type ClaimCheck struct {
	Donation               *entities.Donation
	MemberCount            int
	RequestedQty           int
	DailyConsumedSoFar     int
	DailyCap               int
	HasExistingApplication bool
}

// ValidateClaim returns nil when the claim may be committed, otherwise the
// first failing rule as a *domain.ValidationRejection. It has no side effects.
func ValidateClaim(c ClaimCheck) error {
	if c.RequestedQty <= 0 {
		return domain.ErrInvalidClaimQuantity
	}
	if c.Donation.Status == domain.DonationStatusCompleted {
		return domain.ErrDonationClosed
	}
	if c.HasExistingApplication {
		return domain.ErrDuplicateApplication
	}
	if c.RequestedQty > c.Donation.Remaining() {
		return domain.ErrInsufficientQuantity
	}
	if c.RequestedQty > MaxClaimable(c.Donation, c.MemberCount) {
		return domain.ErrExceedsDonationCap
	}
	if c.DailyConsumedSoFar+c.RequestedQty > c.DailyCap {
		return domain.ErrExceedsDailyCap
	}
	return nil
}

// StepperBounds is the inclusive range the quantity picker may offer. Both
// bounds are zero when nothing can be claimed.
func StepperBounds(maxClaimable, remaining, dailyRemaining int) (int, int) {
	upper := maxClaimable
	if remaining < upper {
		upper = remaining
	}
	if dailyRemaining < upper {
		upper = dailyRemaining
	}
	if upper < 1 {
		return 0, 0
	}
	return 1, upper
}
