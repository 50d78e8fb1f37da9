package domain

import (
	"time"
)

const (
	ApplicationStatusApproved  = "approved"
	ApplicationStatusPending   = "pending"
	ApplicationStatusCompleted = "completed"
	ApplicationStatusRejected  = "rejected"
)

var (
	MessageSuccessApply           = "application submitted successfully"
	MessageSuccessGetApplications = "applications retrieved successfully"

	MessageFailedApply           = "failed to submit application"
	MessageFailedGetApplications = "failed to retrieve applications"
)

type (
	ApplyRequest struct {
		HouseholdID string `json:"household_id" validate:"required,uuid"`
		Quantity    int    `json:"quantity" validate:"required,min=1"`
	}

	Application struct {
		ID              string    `json:"id"`
		DonationID      string    `json:"donation_id"`
		HouseholdID     string    `json:"household_id"`
		ApplicantID     string    `json:"applicant_id"`
		Quantity        int       `json:"quantity"`
		ApplicationDate string    `json:"application_date"`
		Status          string    `json:"status"`
		CreatedAt       time.Time `json:"created_at"`
	}

	ApplyResponse struct {
		Application *Application `json:"application"`
		Donation    *Donation    `json:"donation"`
	}
)
