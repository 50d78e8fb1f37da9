// Package request lets households post food they need when nothing in the
// donation pool fits.
package request

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"Food-Share-Backend/pkg/household"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrInvalidNeededBy = errors.New("needed_by must be a YYYY-MM-DD date")

type (
	RequestService interface {
		CreateRequest(ctx context.Context, input domain.CustomRequestInput, requesterID string) (*domain.CustomRequest, error)
		GetOpenRequests(ctx context.Context) ([]*domain.CustomRequest, error)
		GetMyRequests(ctx context.Context, requesterID string) ([]*domain.CustomRequest, error)
	}

	requestService struct {
		requestRepository RequestRepository
		householdService  household.HouseholdService
		location          *time.Location
	}
)

func NewRequestService(requestRepository RequestRepository, householdService household.HouseholdService, location *time.Location) RequestService {
	if location == nil {
		location = time.UTC
	}
	return &requestService{
		requestRepository: requestRepository,
		householdService:  householdService,
		location:          location,
	}
}

// MissingFields names the required inputs that are blank, in form order.
func MissingFields(input domain.CustomRequestInput) []string {
	var missing []string
	if strings.TrimSpace(input.FoodItem) == "" {
		missing = append(missing, "food_item")
	}
	if input.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(input.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(input.ContactInfo) == "" {
		missing = append(missing, "contact_info")
	}
	return missing
}

func (s *requestService) CreateRequest(ctx context.Context, input domain.CustomRequestInput, requesterID string) (*domain.CustomRequest, error) {
	if missing := MissingFields(input); len(missing) > 0 {
		return nil, domain.MissingFields(missing...)
	}

	request := &entities.CustomRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		FoodItem:    strings.TrimSpace(input.FoodItem),
		Quantity:    input.Quantity,
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		ContactInfo: strings.TrimSpace(input.ContactInfo),
		Status:      domain.CustomRequestStatusOpen,
	}

	if input.NeededBy != "" {
		neededBy, err := time.ParseInLocation(domain.DateLayout, input.NeededBy, s.location)
		if err != nil {
			return nil, ErrInvalidNeededBy
		}
		request.NeededBy = &neededBy
	}

	if input.HouseholdID != "" {
		hh, err := s.householdService.Authorize(ctx, input.HouseholdID, requesterID)
		if err != nil {
			return nil, err
		}
		request.HouseholdID = &hh.ID
	}

	if err := s.requestRepository.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", request.ID.String()).
		Str("food_item", request.FoodItem).
		Int("quantity", request.Quantity).
		Msg("custom request posted")
	return ToDomain(request), nil
}

func (s *requestService) GetOpenRequests(ctx context.Context) ([]*domain.CustomRequest, error) {
	requests, err := s.requestRepository.GetRequestsByStatus(ctx, domain.CustomRequestStatusOpen)
	if err != nil {
		return nil, err
	}
	return toDomainList(requests), nil
}

func (s *requestService) GetMyRequests(ctx context.Context, requesterID string) ([]*domain.CustomRequest, error) {
	requests, err := s.requestRepository.GetRequesterRequests(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return toDomainList(requests), nil
}

func toDomainList(requests []*entities.CustomRequest) []*domain.CustomRequest {
	result := make([]*domain.CustomRequest, 0, len(requests))
	for _, r := range requests {
		result = append(result, ToDomain(r))
	}
	return result
}

func ToDomain(r *entities.CustomRequest) *domain.CustomRequest {
	res := &domain.CustomRequest{
		ID:          r.ID.String(),
		RequesterID: r.RequesterID,
		FoodItem:    r.FoodItem,
		Quantity:    r.Quantity,
		Description: r.Description,
		Location:    r.Location,
		ContactInfo: r.ContactInfo,
		NeededBy:    r.NeededBy,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
	if r.HouseholdID != nil {
		res.HouseholdID = r.HouseholdID.String()
	}
	return res
}
