package donation

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UrgencyWindow is how close to expiry a donation must be to sort first.
const UrgencyWindow = 5 * 24 * time.Hour

// DeriveView recomputes RemainingQuantity, Status and IsUrgent from the base
// fields of raw. Stored derived values are never trusted, except that a
// fully_booked or completed status is not downgraded by a stale quantity.
func DeriveView(raw entities.Donation, now time.Time) entities.Donation {
	view := raw

	remaining := raw.Remaining()
	if remaining > raw.OriginalQuantity {
		remaining = raw.OriginalQuantity
	}
	if remaining < 0 {
		remaining = 0
	}

	switch raw.Status {
	case domain.DonationStatusCompleted:
		view.Status = domain.DonationStatusCompleted
	case domain.DonationStatusFullyBooked:
		remaining = 0
		view.Status = domain.DonationStatusFullyBooked
	default:
		view.Status = StatusFor(remaining, raw.OriginalQuantity)
	}

	view.RemainingQuantity = &remaining
	view.IsUrgent = IsUrgent(raw.ExpirationDate, now)
	return view
}

// StatusFor maps quantities onto the claim status.
func StatusFor(remaining, original int) string {
	switch {
	case remaining <= 0:
		return domain.DonationStatusFullyBooked
	case remaining < original:
		return domain.DonationStatusPartiallyClaimed
	default:
		return domain.DonationStatusAvailable
	}
}

func IsUrgent(expiration *time.Time, now time.Time) bool {
	if expiration == nil {
		return false
	}
	return !expiration.After(now.Add(UrgencyWindow))
}

// Snapshot is an immutable, ordered view of the donation pool. It is safe to
// share between goroutines; callers must not modify the returned slices.
type Snapshot struct {
	donations     []entities.Donation
	index         map[uuid.UUID]int
	totalOriginal int
	skipped       int
	takenAt       time.Time
}

// NewSnapshot derives every record, drops the ones without a food item and
// orders the rest urgent first, then newest first.
func NewSnapshot(raws []entities.Donation, now time.Time) *Snapshot {
	s := &Snapshot{
		donations: make([]entities.Donation, 0, len(raws)),
		index:     make(map[uuid.UUID]int, len(raws)),
		takenAt:   now,
	}

	for i := range raws {
		if strings.TrimSpace(raws[i].FoodItem) == "" {
			log.Warn().
				Str("donation_id", raws[i].ID.String()).
				Msg("skipping malformed donation without food item")
			s.skipped++
			continue
		}
		view := DeriveView(raws[i], now)
		s.totalOriginal += view.OriginalQuantity
		s.donations = append(s.donations, view)
	}

	sort.SliceStable(s.donations, func(i, j int) bool {
		return listedBefore(&s.donations[i], &s.donations[j])
	})
	for i := range s.donations {
		s.index[s.donations[i].ID] = i
	}
	return s
}

func listedBefore(a, b *entities.Donation) bool {
	if a.IsUrgent != b.IsUrgent {
		return a.IsUrgent
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	// total order for equal timestamps
	return a.ID.String() < b.ID.String()
}

func (s *Snapshot) Donations() []entities.Donation { return s.donations }

func (s *Snapshot) Len() int { return len(s.donations) }

// Skipped counts the malformed records left out of the view.
func (s *Snapshot) Skipped() int { return s.skipped }

func (s *Snapshot) TakenAt() time.Time { return s.takenAt }

// TotalOriginalQuantity is the pool size the daily cap is computed from.
func (s *Snapshot) TotalOriginalQuantity() int { return s.totalOriginal }

func (s *Snapshot) Find(id uuid.UUID) (entities.Donation, bool) {
	i, ok := s.index[id]
	if !ok {
		return entities.Donation{}, false
	}
	return s.donations[i], true
}
