package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	DonationStatusAvailable        = "available"
	DonationStatusPartiallyClaimed = "partially_claimed"
	DonationStatusFullyBooked      = "fully_booked"
	DonationStatusCompleted        = "completed"
)

var (
	MessageSuccessCreateDonation   = "donation created successfully"
	MessageSuccessGetDonations     = "donations retrieved successfully"
	MessageSuccessCompleteDonation = "donation marked as completed"
	MessageSuccessGetAllowance     = "allowance retrieved successfully"

	MessageFailedCreateDonation   = "failed to create donation"
	MessageFailedGetDonations     = "failed to retrieve donations"
	MessageFailedCompleteDonation = "failed to complete donation"
	MessageFailedGetAllowance     = "failed to retrieve allowance"

	ErrDonationNotFound           = errors.New("donation not found")
	ErrUnauthorizedDonationAccess = errors.New("unauthorized access to donation")
	ErrInvalidExpirationDate      = errors.New("invalid expiration date")
	ErrInvalidDonationQuantity    = errors.New("donation quantity must be positive")
)

type (
	DonationRequest struct {
		FoodItem         string                `json:"food_item" form:"food_item" validate:"required"`
		Location         string                `json:"location" form:"location" validate:"required"`
		Description      string                `json:"description" form:"description" validate:"omitempty"`
		ContactInfo      string                `json:"contact_info" form:"contact_info" validate:"required"`
		DonorName        string                `json:"donor_name" form:"donor_name" validate:"required"`
		OriginalQuantity int                   `json:"original_quantity" form:"original_quantity" validate:"required,min=1"`
		ExpirationDate   string                `json:"expiration_date" form:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
		FoodImage        *multipart.FileHeader `json:"food_image" form:"food_image"`
	}

	Donation struct {
		ID                string       `json:"id"`
		FoodItem          string       `json:"food_item"`
		Location          string       `json:"location"`
		Description       string       `json:"description"`
		ContactInfo       string       `json:"contact_info"`
		DonorID           string       `json:"donor_id"`
		DonorName         string       `json:"donor_name"`
		ImageURL          string       `json:"image_url,omitempty"`
		OriginalQuantity  int          `json:"original_quantity"`
		RemainingQuantity int          `json:"remaining_quantity"`
		Status            string       `json:"status"`
		ExpirationDate    *time.Time   `json:"expiration_date,omitempty"`
		IsUrgent          bool         `json:"is_urgent"`
		Applicants        []*Applicant `json:"applicants"`
		CreatedAt         time.Time    `json:"created_at"`
	}

	Applicant struct {
		ApplicantID string    `json:"applicant_id"`
		HouseholdID string    `json:"household_id"`
		Quantity    int       `json:"quantity"`
		AppliedAt   time.Time `json:"applied_at"`
		Status      string    `json:"status"`
	}

	// DonationListing is the browse view. AppliedDonationIDs is only filled
	// when the caller asks on behalf of a household.
	DonationListing struct {
		Donations          []*Donation `json:"donations"`
		AppliedDonationIDs []string    `json:"applied_donation_ids,omitempty"`
		Skipped            int         `json:"skipped"`
	}

	// Allowance tells the presentation layer how far the quantity stepper may go.
	Allowance struct {
		DonationID           string  `json:"donation_id"`
		HouseholdID          string  `json:"household_id"`
		HouseholdClass       string  `json:"household_class"`
		AllocationPercentage float64 `json:"allocation_percentage"`
		MaxClaimable         int     `json:"max_claimable"`
		DailyCap             int     `json:"daily_cap"`
		ConsumedToday        int     `json:"consumed_today"`
		HasApplied           bool    `json:"has_applied"`
		StepperMin           int     `json:"stepper_min"`
		StepperMax           int     `json:"stepper_max"`
		Explanation          string  `json:"explanation"`
	}
)
