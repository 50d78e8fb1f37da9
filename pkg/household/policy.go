package household

import (
	"Food-Share-Backend/domain"
)

const (
	LargeHouseholdThreshold = 7

	regularAllocationPercent = 30
	largeAllocationPercent   = 35
)

// IsLarge reports whether a household of memberCount people gets the larger share.
func IsLarge(memberCount int) bool {
	return memberCount >= LargeHouseholdThreshold
}

// AllocationPercent is the share of a donation's original quantity a
// household may claim, in whole percent points.
func AllocationPercent(memberCount int) int {
	if IsLarge(memberCount) {
		return largeAllocationPercent
	}
	return regularAllocationPercent
}

// AllocationPercentage is AllocationPercent as a fraction (0.30 or 0.35).
func AllocationPercentage(memberCount int) float64 {
	return float64(AllocationPercent(memberCount)) / 100
}

// Classify labels the household for explanation text only. Decisions use
// AllocationPercent.
func Classify(memberCount int) string {
	if IsLarge(memberCount) {
		return domain.HouseholdClassLarge
	}
	return domain.HouseholdClassRegular
}
