package entities

import (
	"github.com/google/uuid"
	"time"
)

type Donation struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID           string     `gorm:"index" json:"donor_id"`
	DonorName         string     `json:"donor_name"`
	FoodItem          string     `json:"food_item"`
	Location          string     `json:"location"`
	Description       string     `json:"description"`
	ContactInfo       string     `json:"contact_info"`
	ImageURL          string     `json:"image_url,omitempty"`
	OriginalQuantity  int        `json:"original_quantity"`
	RemainingQuantity *int       `json:"remaining_quantity"`
	Status            string     `json:"status"` // available, partially_claimed, fully_booked, completed
	ExpirationDate    *time.Time `json:"expiration_date,omitempty"`
	Version           int        `gorm:"not null;default:0" json:"-"`

	// IsUrgent is derived on every read, never persisted.
	IsUrgent bool `gorm:"-" json:"is_urgent"`

	Applicants []*DonationApplicant `gorm:"foreignKey:DonationID"`
	Timestamp
}

// DonationApplicant is the append-only audit trail of claims against a donation.
type DonationApplicant struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DonationID  uuid.UUID `gorm:"type:uuid;index" json:"donation_id"`
	ApplicantID string    `json:"applicant_id"`
	HouseholdID uuid.UUID `gorm:"type:uuid" json:"household_id"`
	Quantity    int       `json:"quantity"`
	AppliedAt   time.Time `json:"applied_at"`
	Status      string    `json:"status"`
}

// Remaining treats an absent remaining quantity as nothing claimed yet.
func (d *Donation) Remaining() int {
	if d.RemainingQuantity == nil {
		return d.OriginalQuantity
	}
	return *d.RemainingQuantity
}
