package claim

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"context"
)

// ApprovalPolicy decides the status a new application is recorded with. It
// must return domain.ApplicationStatusApproved or
// domain.ApplicationStatusPending; the quantity is reserved either way.
type ApprovalPolicy interface {
	Decide(ctx context.Context, donation *entities.Donation, household *entities.Household, quantity int) string
}

// AutoApprove approves every application that passed validation.
type AutoApprove struct{}

func (AutoApprove) Decide(context.Context, *entities.Donation, *entities.Household, int) string {
	return domain.ApplicationStatusApproved
}

// ManualReview leaves every application pending for a coordinator.
type ManualReview struct{}

func (ManualReview) Decide(context.Context, *entities.Donation, *entities.Household, int) string {
	return domain.ApplicationStatusPending
}
