package service

import (
	"context"
	"fmt"

	"github.com/gharseva/gharseva-api/internal/domain"
)

// PartnerServiceImpl handles partner profile, services and visiting fee
// operations
type PartnerServiceImpl struct {
	partners domain.PartnerRepository
}

// NewPartnerService creates a new partner profile service
func NewPartnerService(partners domain.PartnerRepository) *PartnerServiceImpl {
	return &PartnerServiceImpl{
		partners: partners,
	}
}

// GetProfile returns the partner's own profile, password excluded
func (s *PartnerServiceImpl) GetProfile(ctx context.Context, partnerID string) (*domain.Partner, error) {
	return s.partners.GetByID(ctx, partnerID)
}

// GetDetails returns the public view of a partner
func (s *PartnerServiceImpl) GetDetails(ctx context.Context, partnerID string) (*domain.Partner, error) {
	return s.partners.GetByID(ctx, partnerID)
}

// UpdateProfile applies a partial update to mutable profile fields.
// Credentials and role cannot be changed through this path.
func (s *PartnerServiceImpl) UpdateProfile(ctx context.Context, partnerID string, update domain.ProfileUpdate) (*domain.Partner, error) {
	if update.Location != nil {
		if err := update.Location.Validate(); err != nil {
			return nil, err
		}
	}
	return s.partners.UpdateProfile(ctx, partnerID, update)
}

// UpdateServices replaces the partner's service catalogue
func (s *PartnerServiceImpl) UpdateServices(ctx context.Context, partnerID string, services []domain.Service) error {
	for i, svc := range services {
		if svc.Name == "" {
			return &domain.ValidationError{Index: i, Reason: "service name is required"}
		}
		if !domain.IsValidCategory(svc.Category) {
			return &domain.ValidationError{Index: i, Reason: fmt.Sprintf("unknown service category %q", svc.Category)}
		}
		if svc.Price < 0 {
			return &domain.ValidationError{Index: i, Reason: "price cannot be negative"}
		}
	}
	return s.partners.UpdateServices(ctx, partnerID, services)
}

// GetVisitingFee returns the partner's visiting fee configuration
func (s *PartnerServiceImpl) GetVisitingFee(ctx context.Context, partnerID string) (*domain.VisitingFee, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	fee := partner.VisitingFee
	return &fee, nil
}

// UpdateVisitingFee replaces the partner's visiting fee configuration
func (s *PartnerServiceImpl) UpdateVisitingFee(ctx context.Context, partnerID string, fee domain.VisitingFee) error {
	if fee.Amount < 0 {
		return domain.NewValidationError("visiting fee amount cannot be negative")
	}
	if fee.Currency == "" {
		fee.Currency = "INR"
	}
	return s.partners.UpdateVisitingFee(ctx, partnerID, fee)
}

// Deactivate marks the partner account inactive, hiding it from the
// directory
func (s *PartnerServiceImpl) Deactivate(ctx context.Context, partnerID string) error {
	return s.partners.SetActive(ctx, partnerID, false)
}
