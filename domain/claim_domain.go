package domain

import (
	"errors"
	"fmt"
	"strings"
)

// RejectionReason is the stable code the presentation layer keys its
// user-facing messages on.
type RejectionReason string

const (
	ReasonDuplicateApplication  RejectionReason = "duplicate_application"
	ReasonInsufficientQuantity  RejectionReason = "insufficient_quantity"
	ReasonExceedsDonationCap    RejectionReason = "exceeds_donation_cap"
	ReasonExceedsDailyCap       RejectionReason = "exceeds_daily_cap"
	ReasonSelfClaim             RejectionReason = "self_claim"
	ReasonMissingRequiredFields RejectionReason = "missing_required_fields"
	ReasonInvalidQuantity       RejectionReason = "invalid_quantity"
	ReasonDonationClosed        RejectionReason = "donation_closed"
)

// ValidationRejection is a permanent business-rule failure. The caller can
// recover by changing its input; it is never retried automatically.
type ValidationRejection struct {
	Reason  RejectionReason
	Message string
	Fields  []string
}

func (e *ValidationRejection) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
	}
	return e.Message
}

// Is matches any rejection with the same reason, so a rejection carrying
// field details still satisfies errors.Is against the sentinel.
func (e *ValidationRejection) Is(target error) bool {
	t, ok := target.(*ValidationRejection)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

var (
	ErrDuplicateApplication = &ValidationRejection{
		Reason:  ReasonDuplicateApplication,
		Message: "your household has already applied for this donation",
	}
	ErrInsufficientQuantity = &ValidationRejection{
		Reason:  ReasonInsufficientQuantity,
		Message: "not enough servings remain for the requested quantity",
	}
	ErrExceedsDonationCap = &ValidationRejection{
		Reason:  ReasonExceedsDonationCap,
		Message: "requested quantity exceeds your household's share of this donation",
	}
	ErrExceedsDailyCap = &ValidationRejection{
		Reason:  ReasonExceedsDailyCap,
		Message: "requested quantity exceeds your household's daily limit",
	}
	ErrSelfClaim = &ValidationRejection{
		Reason:  ReasonSelfClaim,
		Message: "you cannot apply for your own donation",
	}
	ErrMissingRequiredFields = &ValidationRejection{
		Reason:  ReasonMissingRequiredFields,
		Message: "required fields are missing",
	}
	ErrInvalidClaimQuantity = &ValidationRejection{
		Reason:  ReasonInvalidQuantity,
		Message: "quantity must be at least 1",
	}
	ErrDonationClosed = &ValidationRejection{
		Reason:  ReasonDonationClosed,
		Message: "this donation is no longer accepting applications",
	}
)

// MissingFields returns a missing_required_fields rejection naming the fields.
func MissingFields(fields ...string) *ValidationRejection {
	return &ValidationRejection{
		Reason:  ReasonMissingRequiredFields,
		Message: ErrMissingRequiredFields.Message,
		Fields:  fields,
	}
}

// ErrConcurrentWrite reports a lost compare-and-swap on a donation record.
var ErrConcurrentWrite = errors.New("conflicting concurrent write")

// InfrastructureFailure is a retryable storage or transport failure. It is
// never a statement about the business rules.
type InfrastructureFailure struct {
	Op  string
	Err error
}

func (e *InfrastructureFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureFailure) Unwrap() error {
	return e.Err
}

// AsRejection reports whether err carries a ValidationRejection.
func AsRejection(err error) (*ValidationRejection, bool) {
	var r *ValidationRejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// IsInfrastructureFailure reports whether err is retryable infrastructure trouble.
func IsInfrastructureFailure(err error) bool {
	var f *InfrastructureFailure
	return errors.As(err, &f)
}
