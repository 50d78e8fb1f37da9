package domain

import (
	"errors"
)

const (
	RoleUser  = "user"
	RoleGuest = "guest"
	//ROLE_ADMIN  = "admin"

	DateLayout = "2006-01-02"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageTryAgainLater        = "something went wrong on our side, please try again in a moment"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)
