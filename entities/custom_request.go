package entities

import (
	"github.com/google/uuid"
	"time"
)

type CustomRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID string     `gorm:"index" json:"requester_id"`
	HouseholdID *uuid.UUID `gorm:"type:uuid" json:"household_id,omitempty"`
	FoodItem    string     `json:"food_item"`
	Quantity    int        `json:"quantity"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	ContactInfo string     `json:"contact_info"`
	NeededBy    *time.Time `json:"needed_by,omitempty"`
	Status      string     `json:"status"` // Open, Fulfilled, Cancelled
	Timestamp
}
