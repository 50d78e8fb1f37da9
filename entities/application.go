package entities

import (
	"github.com/google/uuid"
)

type Application struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DonationID      uuid.UUID `gorm:"type:uuid;index:idx_application_household_donation" json:"donation_id"`
	HouseholdID     uuid.UUID `gorm:"type:uuid;index:idx_application_household_donation;index:idx_application_household_day" json:"household_id"`
	ApplicantID     string    `json:"applicant_id"`
	Quantity        int       `json:"quantity"`
	ApplicationDate string    `gorm:"type:varchar(10);index:idx_application_household_day" json:"application_date"` // YYYY-MM-DD in the pickup region
	Status          string    `json:"status"`                                                                       // approved, pending, completed, rejected

	Donation  *Donation  `gorm:"foreignKey:DonationID"`
	Household *Household `gorm:"foreignKey:HouseholdID"`
	Timestamp
}
