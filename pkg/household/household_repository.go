package household

import (
	"Food-Share-Backend/entities"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type (
	HouseholdRepository interface {
		CreateHousehold(ctx context.Context, household *entities.Household) error
		GetHouseholdByID(ctx context.Context, id string) (*entities.Household, error)
		GetUserHouseholds(ctx context.Context, userID string) ([]*entities.Household, error)
	}

	householdRepository struct {
		db *gorm.DB
	}
)

func NewHouseholdRepository(db *gorm.DB) HouseholdRepository {
	return &householdRepository{db: db}
}

func (r *householdRepository) CreateHousehold(ctx context.Context, household *entities.Household) error {
	if err := r.db.WithContext(ctx).Create(household).Error; err != nil {
		return errors.Wrap(err, "create household")
	}
	return nil
}

func (r *householdRepository) GetHouseholdByID(ctx context.Context, id string) (*entities.Household, error) {
	var household entities.Household
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "get household")
	}
	return &household, nil
}

func (r *householdRepository) GetUserHouseholds(ctx context.Context, userID string) ([]*entities.Household, error) {
	var households []*entities.Household
	memberOf := r.db.Model(&entities.HouseholdMember{}).
		Select("household_id").
		Where("user_id = ?", userID)

	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("registrant_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").
		Find(&households).Error; err != nil {
		return nil, errors.Wrap(err, "list user households")
	}
	return households, nil
}
