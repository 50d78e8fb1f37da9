package domain

import (
	"errors"
	"time"
)

const (
	HouseholdClassRegular = "regular"
	HouseholdClassLarge   = "large"
)

var (
	MessageSuccessRegisterHousehold = "household registered successfully"
	MessageSuccessGetHouseholds     = "households retrieved successfully"

	MessageFailedRegisterHousehold = "failed to register household"
	MessageFailedGetHouseholds     = "failed to retrieve households"

	ErrHouseholdNotFound     = errors.New("household not found")
	ErrHouseholdAccessDenied = errors.New("you are not an authorized member of this household")
	ErrInvalidMemberCount    = errors.New("member count must be at least 1")
)

type (
	RegisterHouseholdRequest struct {
		HouseholdName     string   `json:"household_name" validate:"required,max=120"`
		MemberCount       int      `json:"member_count" validate:"required,min=1"`
		AuthorizedMembers []string `json:"authorized_members" validate:"omitempty,dive,required"`
	}

	Household struct {
		ID                   string    `json:"id"`
		HouseholdName        string    `json:"household_name"`
		MemberCount          int       `json:"member_count"`
		RegistrantID         string    `json:"registrant_id"`
		AuthorizedMembers    []string  `json:"authorized_members"`
		Class                string    `json:"class"`
		AllocationPercentage float64   `json:"allocation_percentage"`
		CreatedAt            time.Time `json:"created_at"`
	}
)
