// Package application keeps the append-only record of household claims and
// answers the two questions the allocation rules ask of it: how much has a
// household taken today, and has it already applied for a donation.
package application

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const statusRejected = domain.ApplicationStatusRejected

// consumingStatuses count against the daily cap.
var consumingStatuses = []string{
	domain.ApplicationStatusApproved,
	domain.ApplicationStatusCompleted,
}

var validStatuses = map[string]bool{
	domain.ApplicationStatusApproved:  true,
	domain.ApplicationStatusPending:   true,
	domain.ApplicationStatusCompleted: true,
	domain.ApplicationStatusRejected:  true,
}

// Day is the calendar day of t in the pickup region, as stored in
// Application.ApplicationDate.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(domain.DateLayout)
}

// Ledger is never asked to update or delete. Callers that need the duplicate
// check to be race-free must hold the donation's lock around HasApplied and
// Record (see pkg/claim).
type Ledger struct {
	repo ApplicationRepository
}

func NewLedger(repo ApplicationRepository) *Ledger {
	return &Ledger{repo: repo}
}

// WithTx binds the ledger to an open transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{repo: l.repo.WithTx(tx)}
}

func (l *Ledger) ConsumedToday(ctx context.Context, householdID string, day string) (int, error) {
	return l.repo.SumQuantityForDay(ctx, householdID, day, consumingStatuses)
}

func (l *Ledger) HasApplied(ctx context.Context, householdID, donationID string) (bool, error) {
	count, err := l.repo.CountActiveForDonation(ctx, householdID, donationID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (l *Ledger) Record(ctx context.Context, application *entities.Application) error {
	if application.Quantity <= 0 {
		return domain.ErrInvalidClaimQuantity
	}
	if !validStatuses[application.Status] {
		return fmt.Errorf("ledger: unknown application status %q", application.Status)
	}
	if application.ApplicationDate == "" {
		return fmt.Errorf("ledger: application %s has no application date", application.ID)
	}
	return l.repo.CreateApplication(ctx, application)
}

func (l *Ledger) History(ctx context.Context, householdID string) ([]*entities.Application, error) {
	return l.repo.GetHouseholdApplications(ctx, householdID)
}

func (l *Ledger) AppliedDonationIDs(ctx context.Context, householdID string) ([]string, error) {
	return l.repo.GetHouseholdDonationIDs(ctx, householdID)
}

func ToDomain(a *entities.Application) *domain.Application {
	return &domain.Application{
		ID:              a.ID.String(),
		DonationID:      a.DonationID.String(),
		HouseholdID:     a.HouseholdID.String(),
		ApplicantID:     a.ApplicantID,
		Quantity:        a.Quantity,
		ApplicationDate: a.ApplicationDate,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
	}
}
