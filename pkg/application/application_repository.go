package application

import (
	"Food-Share-Backend/entities"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type (
	ApplicationRepository interface {
		CreateApplication(ctx context.Context, application *entities.Application) error
		SumQuantityForDay(ctx context.Context, householdID string, day string, statuses []string) (int, error)
		CountActiveForDonation(ctx context.Context, householdID, donationID string) (int64, error)
		GetHouseholdApplications(ctx context.Context, householdID string) ([]*entities.Application, error)
		GetHouseholdDonationIDs(ctx context.Context, householdID string) ([]string, error)

		WithTx(tx *gorm.DB) ApplicationRepository
	}

	applicationRepository struct {
		db *gorm.DB
	}
)

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) WithTx(tx *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: tx}
}

func (r *applicationRepository) CreateApplication(ctx context.Context, application *entities.Application) error {
	if err := r.db.WithContext(ctx).Omit("Donation", "Household").Create(application).Error; err != nil {
		return errors.Wrap(err, "create application")
	}
	return nil
}

func (r *applicationRepository) SumQuantityForDay(ctx context.Context, householdID string, day string, statuses []string) (int, error) {
	var total int
	if err := r.db.WithContext(ctx).
		Model(&entities.Application{}).
		Where("household_id = ? AND application_date = ? AND status IN ?", householdID, day, statuses).
		Select("COALESCE(SUM(quantity), 0) as total").
		Row().Scan(&total); err != nil {
		return 0, errors.Wrap(err, "sum daily quantity")
	}
	return total, nil
}

func (r *applicationRepository) CountActiveForDonation(ctx context.Context, householdID, donationID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Application{}).
		Where("household_id = ? AND donation_id = ? AND status <> ?", householdID, donationID, statusRejected).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count applications")
	}
	return count, nil
}

func (r *applicationRepository) GetHouseholdApplications(ctx context.Context, householdID string) ([]*entities.Application, error) {
	var applications []*entities.Application
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, errors.Wrap(err, "list household applications")
	}
	return applications, nil
}

func (r *applicationRepository) GetHouseholdDonationIDs(ctx context.Context, householdID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.Application{}).
		Where("household_id = ? AND status <> ?", householdID, statusRejected).
		Distinct().
		Pluck("donation_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "list applied donations")
	}
	return ids, nil
}
