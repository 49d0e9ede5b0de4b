package service

import (
	"context"
	"fmt"
	"log"

	"github.com/gharseva/gharseva-api/internal/domain"
)

const portfolioFolder = "partners/portfolio"

// PortfolioServiceImpl implements domain.PortfolioService
type PortfolioServiceImpl struct {
	partners  domain.PartnerRepository
	store     domain.AssetStore
	validator *UploadValidator
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(partners domain.PartnerRepository, store domain.AssetStore, validator *UploadValidator) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{
		partners:  partners,
		store:     store,
		validator: validator,
	}
}

// AddBatch uploads a batch of portfolio images and appends them to the
// partner's collection. kinds, captions and locations are parallel arrays
// addressed by index: a missing kind defaults to "before", a missing caption
// to the empty string, and a malformed location is dropped for that item
// only. Items are appended only after every upload has succeeded.
func (s *PortfolioServiceImpl) AddBatch(ctx context.Context, partnerID string, files []domain.UploadFile, kinds, captions, locations []string) ([]domain.PortfolioItem, error) {
	if len(files) == 0 {
		return nil, domain.NewValidationError("at least one image is required")
	}
	if err := s.validator.ValidateBatch(files); err != nil {
		return nil, err
	}

	// Resolve kinds before any network call so a bad value cannot leave
	// half a batch in the remote store.
	resolvedKinds := make([]domain.PortfolioKind, len(files))
	for i := range files {
		kind := domain.KindBefore
		if i < len(kinds) && kinds[i] != "" {
			kind = domain.PortfolioKind(kinds[i])
			if !kind.Valid() {
				return nil, &domain.ValidationError{Index: i, Reason: fmt.Sprintf("unknown image kind %q", kinds[i])}
			}
		}
		resolvedKinds[i] = kind
	}

	if _, err := s.partners.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}

	descriptors, err := s.store.UploadBatch(ctx, files, portfolioFolder)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PortfolioItem, len(files))
	for i := range files {
		item := domain.PortfolioItem{
			Kind:  resolvedKinds[i],
			Asset: *descriptors[i],
		}
		if i < len(captions) {
			item.Caption = captions[i]
		}
		if i < len(locations) && locations[i] != "" {
			point, perr := domain.ParseGeoPoint(locations[i])
			if perr != nil {
				// Bad coordinates spoil only this item's location, never
				// the batch.
				log.Printf("Warning: dropping invalid location for image %d: %v", i+1, perr)
			} else {
				item.Location = point
			}
		}
		items[i] = item
	}

	if err := s.partners.AddPortfolioItems(ctx, partnerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem applies a partial patch to one portfolio item and returns the
// stored item. An empty patch is a no-op returning the item unchanged.
func (s *PortfolioServiceImpl) UpdateItem(ctx context.Context, partnerID, itemID string, patch domain.PortfolioPatch) (*domain.PortfolioItem, error) {
	if patch.Kind != nil && !patch.Kind.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown image kind %q", *patch.Kind))
	}
	if patch.Location != nil {
		if err := patch.Location.Validate(); err != nil {
			return nil, err
		}
	}

	if patch.IsZero() {
		return s.partners.GetPortfolioItem(ctx, partnerID, itemID)
	}

	if err := s.partners.UpdatePortfolioItem(ctx, partnerID, itemID, patch); err != nil {
		return nil, err
	}
	return s.partners.GetPortfolioItem(ctx, partnerID, itemID)
}

// DeleteItem removes an item from the collection, then best-effort deletes
// its backing object from the content repository
func (s *PortfolioServiceImpl) DeleteItem(ctx context.Context, partnerID, itemID string) error {
	item, err := s.partners.GetPortfolioItem(ctx, partnerID, itemID)
	if err != nil {
		return err
	}

	if err := s.partners.RemovePortfolioItem(ctx, partnerID, itemID); err != nil {
		return err
	}

	if !item.Asset.IsZero() {
		if derr := s.store.Delete(ctx, item.Asset.StoragePath, item.Asset.ContentHash); derr != nil {
			log.Printf("Warning: failed to delete %s from content repository: %v", item.Asset.StoragePath, derr)
		}
	}
	return nil
}
