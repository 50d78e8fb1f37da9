package donation

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type (
	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.Donation) error
		GetDonationByID(ctx context.Context, id string) (*entities.Donation, error)
		GetDonations(ctx context.Context) ([]entities.Donation, error)
		GetDonorDonations(ctx context.Context, donorID string) ([]entities.Donation, error)
		SumOriginalQuantity(ctx context.Context) (int, error)
		UpdateDonationStatus(ctx context.Context, id string, status string) error

		// UpdateClaimState writes the new remaining quantity and status only if
		// the stored version still equals version. It returns
		// domain.ErrConcurrentWrite when another writer got there first.
		UpdateClaimState(ctx context.Context, id uuid.UUID, remaining int, status string, version int) error
		AddApplicant(ctx context.Context, applicant *entities.DonationApplicant) error

		WithTx(tx *gorm.DB) DonationRepository
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) WithTx(tx *gorm.DB) DonationRepository {
	return &donationRepository{db: tx}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	if err := r.db.WithContext(ctx).Create(donation).Error; err != nil {
		return errors.Wrap(err, "create donation")
	}
	return nil
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Applicants", func(db *gorm.DB) *gorm.DB {
			return db.Order("applied_at ASC")
		}).
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "get donation")
	}
	return &donation, nil
}

func (r *donationRepository) GetDonations(ctx context.Context) ([]entities.Donation, error) {
	var donations []entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Applicants", func(db *gorm.DB) *gorm.DB {
			return db.Order("applied_at ASC")
		}).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, errors.Wrap(err, "list donations")
	}
	return donations, nil
}

func (r *donationRepository) GetDonorDonations(ctx context.Context, donorID string) ([]entities.Donation, error) {
	var donations []entities.Donation
	if err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, errors.Wrap(err, "list donor donations")
	}
	return donations, nil
}

// SumOriginalQuantity skips rows without a food item, matching what the
// listing snapshot counts.
func (r *donationRepository) SumOriginalQuantity(ctx context.Context) (int, error) {
	var total int
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("food_item <> ''").
		Select("COALESCE(SUM(original_quantity), 0) as total").
		Row().Scan(&total); err != nil {
		return 0, errors.Wrap(err, "sum original quantity")
	}
	return total, nil
}

func (r *donationRepository) UpdateDonationStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update donation status")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *donationRepository) UpdateClaimState(ctx context.Context, id uuid.UUID, remaining int, status string, version int) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"remaining_quantity": remaining,
			"status":             status,
			"version":            gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update claim state")
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentWrite
	}
	return nil
}

func (r *donationRepository) AddApplicant(ctx context.Context, applicant *entities.DonationApplicant) error {
	if err := r.db.WithContext(ctx).Create(applicant).Error; err != nil {
		return errors.Wrap(err, "add donation applicant")
	}
	return nil
}
