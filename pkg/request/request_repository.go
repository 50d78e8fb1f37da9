package request

import (
	"Food-Share-Backend/entities"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type (
	RequestRepository interface {
		CreateRequest(ctx context.Context, request *entities.CustomRequest) error
		GetRequestsByStatus(ctx context.Context, status string) ([]*entities.CustomRequest, error)
		GetRequesterRequests(ctx context.Context, requesterID string) ([]*entities.CustomRequest, error)
	}

	requestRepository struct {
		db *gorm.DB
	}
)

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) CreateRequest(ctx context.Context, request *entities.CustomRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return errors.Wrap(err, "create custom request")
	}
	return nil
}

func (r *requestRepository) GetRequestsByStatus(ctx context.Context, status string) ([]*entities.CustomRequest, error) {
	var requests []*entities.CustomRequest
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, errors.Wrap(err, "list custom requests")
	}
	return requests, nil
}

func (r *requestRepository) GetRequesterRequests(ctx context.Context, requesterID string) ([]*entities.CustomRequest, error) {
	var requests []*entities.CustomRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, errors.Wrap(err, "list requester custom requests")
	}
	return requests, nil
}
