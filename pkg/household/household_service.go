package household

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	HouseholdService interface {
		RegisterHousehold(ctx context.Context, req domain.RegisterHouseholdRequest, registrantID string) (*domain.Household, error)
		GetUserHouseholds(ctx context.Context, userID string) ([]*domain.Household, error)
		// Authorize loads the household and checks that userID may claim for it.
		Authorize(ctx context.Context, householdID string, userID string) (*entities.Household, error)
	}

	householdService struct {
		householdRepository HouseholdRepository
	}
)

func NewHouseholdService(householdRepository HouseholdRepository) HouseholdService {
	return &householdService{
		householdRepository: householdRepository,
	}
}

func (s *householdService) RegisterHousehold(ctx context.Context, req domain.RegisterHouseholdRequest, registrantID string) (*domain.Household, error) {
	if req.MemberCount < 1 {
		return nil, domain.ErrInvalidMemberCount
	}

	householdID := uuid.New()
	household := &entities.Household{
		ID:            householdID,
		HouseholdName: strings.TrimSpace(req.HouseholdName),
		MemberCount:   req.MemberCount,
		RegistrantID:  registrantID,
	}

	seen := map[string]bool{registrantID: true}
	for _, member := range req.AuthorizedMembers {
		member = strings.TrimSpace(member)
		if member == "" || seen[member] {
			continue
		}
		seen[member] = true
		household.Members = append(household.Members, &entities.HouseholdMember{
			ID:          uuid.New(),
			HouseholdID: householdID,
			UserID:      member,
		})
	}

	if err := s.householdRepository.CreateHousehold(ctx, household); err != nil {
		return nil, err
	}

	return ToDomain(household), nil
}

func (s *householdService) GetUserHouseholds(ctx context.Context, userID string) ([]*domain.Household, error) {
	households, err := s.householdRepository.GetUserHouseholds(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Household, 0, len(households))
	for _, h := range households {
		result = append(result, ToDomain(h))
	}
	return result, nil
}

func (s *householdService) Authorize(ctx context.Context, householdID string, userID string) (*entities.Household, error) {
	if _, err := uuid.Parse(householdID); err != nil {
		return nil, domain.ErrParseUUID
	}

	household, err := s.householdRepository.GetHouseholdByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, err
	}

	if !CanActFor(household, userID) {
		return nil, domain.ErrHouseholdAccessDenied
	}
	return household, nil
}

// CanActFor reports whether userID is the registrant or an authorised member.
func CanActFor(h *entities.Household, userID string) bool {
	if userID == "" {
		return false
	}
	if h.RegistrantID == userID {
		return true
	}
	for _, m := range h.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func ToDomain(h *entities.Household) *domain.Household {
	members := make([]string, 0, len(h.Members))
	for _, m := range h.Members {
		members = append(members, m.UserID)
	}

	return &domain.Household{
		ID:                   h.ID.String(),
		HouseholdName:        h.HouseholdName,
		MemberCount:          h.MemberCount,
		RegistrantID:         h.RegistrantID,
		AuthorizedMembers:    members,
		Class:                Classify(h.MemberCount),
		AllocationPercentage: AllocationPercentage(h.MemberCount),
		CreatedAt:            h.CreatedAt,
	}
}
