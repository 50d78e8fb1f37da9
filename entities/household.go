package entities

import (
	"github.com/google/uuid"
)

type Household struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdName string    `json:"household_name"`
	MemberCount   int       `json:"member_count"`
	RegistrantID  string    `gorm:"index" json:"registrant_id"`

	Members []*HouseholdMember `gorm:"foreignKey:HouseholdID"`
	Timestamp
}

// HouseholdMember is an identity authorised to claim on behalf of the household.
type HouseholdMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HouseholdID uuid.UUID `gorm:"type:uuid;index" json:"household_id"`
	UserID      string    `gorm:"index" json:"user_id"`
	Timestamp
}
