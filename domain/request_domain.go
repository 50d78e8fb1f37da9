package domain

import (
	"time"
)

const (
	CustomRequestStatusOpen = "Open"
)

var (
	MessageSuccessCreateRequest = "request posted successfully"
	MessageSuccessGetRequests   = "requests retrieved successfully"

	MessageFailedCreateRequest = "failed to post request"
	MessageFailedGetRequests   = "failed to retrieve requests"
)

type (
	// Required fields of CustomRequestInput are checked by the request service
	// and reported as a missing_required_fields rejection.
	CustomRequestInput struct {
		HouseholdID string `json:"household_id" validate:"omitempty,uuid"`
		FoodItem    string `json:"food_item"`
		Quantity    int    `json:"quantity"`
		Description string `json:"description" validate:"omitempty,max=1000"`
		Location    string `json:"location"`
		ContactInfo string `json:"contact_info"`
		NeededBy    string `json:"needed_by" validate:"omitempty,datetime=2006-01-02"`
	}

	CustomRequest struct {
		ID          string     `json:"id"`
		RequesterID string     `json:"requester_id"`
		HouseholdID string     `json:"household_id,omitempty"`
		FoodItem    string     `json:"food_item"`
		Quantity    int        `json:"quantity"`
		Description string     `json:"description"`
		Location    string     `json:"location"`
		ContactInfo string     `json:"contact_info"`
		NeededBy    *time.Time `json:"needed_by,omitempty"`
		Status      string     `json:"status"`
		CreatedAt   time.Time  `json:"created_at"`
	}
)
