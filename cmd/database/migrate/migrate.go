package migration

import (
	"Food-Share-Backend/entities"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
			log.Warn().Err(err).Msg("could not enable uuid-ossp extension")
		}
	}

	if err := db.AutoMigrate(&entities.Household{}, &entities.HouseholdMember{}); err != nil {
		return errors.Wrap(err, "migrate household tables")
	}
	if err := db.AutoMigrate(&entities.Donation{}, &entities.DonationApplicant{}); err != nil {
		return errors.Wrap(err, "migrate donation tables")
	}
	if err := db.AutoMigrate(&entities.Application{}); err != nil {
		return errors.Wrap(err, "migrate application table")
	}
	if err := db.AutoMigrate(&entities.CustomRequest{}); err != nil {
		return errors.Wrap(err, "migrate custom request table")
	}

	log.Info().Msg("database migration complete")
	return nil
}
