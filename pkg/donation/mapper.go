package donation

import (
	"Food-Share-Backend/domain"
	"Food-Share-Backend/entities"
)

// ToDomain converts a derived view into its API shape.
func ToDomain(d *entities.Donation) *domain.Donation {
	applicants := make([]*domain.Applicant, 0, len(d.Applicants))
	for _, a := range d.Applicants {
		applicants = append(applicants, &domain.Applicant{
			ApplicantID: a.ApplicantID,
			HouseholdID: a.HouseholdID.String(),
			Quantity:    a.Quantity,
			AppliedAt:   a.AppliedAt,
			Status:      a.Status,
		})
	}

	return &domain.Donation{
		ID:                d.ID.String(),
		FoodItem:          d.FoodItem,
		Location:          d.Location,
		Description:       d.Description,
		ContactInfo:       d.ContactInfo,
		DonorID:           d.DonorID,
		DonorName:         d.DonorName,
		ImageURL:          d.ImageURL,
		OriginalQuantity:  d.OriginalQuantity,
		RemainingQuantity: d.Remaining(),
		Status:            d.Status,
		ExpirationDate:    d.ExpirationDate,
		IsUrgent:          d.IsUrgent,
		Applicants:        applicants,
		CreatedAt:         d.CreatedAt,
	}
}
