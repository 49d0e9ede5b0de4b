package service

import (
	"context"
	"log"

	"github.com/gharseva/gharseva-api/internal/domain"
)

// Storage folders for the two profile media fields
const (
	avatarFolder = "partners/avatars"
	bannerFolder = "partners/banners"
)

// MediaServiceImpl implements domain.MediaService.
//
// Replacing a profile image always uploads the new object before touching
// the old one, so the profile never points at nothing. Cleanup of the
// superseded object is best-effort: a failure is logged and swallowed,
// trading an occasional orphaned file for never blocking the user action.
type MediaServiceImpl struct {
	partners  domain.PartnerRepository
	store     domain.AssetStore
	validator *UploadValidator
}

// NewMediaService creates a new media service
func NewMediaService(partners domain.PartnerRepository, store domain.AssetStore, validator *UploadValidator) *MediaServiceImpl {
	return &MediaServiceImpl{
		partners:  partners,
		store:     store,
		validator: validator,
	}
}

// UpdateAvatar replaces the partner's avatar
func (s *MediaServiceImpl) UpdateAvatar(ctx context.Context, partnerID string, file domain.UploadFile) (*domain.AssetDescriptor, error) {
	return s.replace(ctx, partnerID, file, avatarFolder,
		func(p *domain.Partner) *domain.AssetDescriptor { return p.Avatar },
		s.partners.SetAvatar,
	)
}

// UpdateBanner replaces the partner's banner image
func (s *MediaServiceImpl) UpdateBanner(ctx context.Context, partnerID string, file domain.UploadFile) (*domain.AssetDescriptor, error) {
	return s.replace(ctx, partnerID, file, bannerFolder,
		func(p *domain.Partner) *domain.AssetDescriptor { return p.Banner },
		s.partners.SetBanner,
	)
}

// DeleteAvatar removes the partner's avatar
func (s *MediaServiceImpl) DeleteAvatar(ctx context.Context, partnerID string) error {
	return s.remove(ctx, partnerID,
		func(p *domain.Partner) *domain.AssetDescriptor { return p.Avatar },
		s.partners.SetAvatar,
	)
}

// DeleteBanner removes the partner's banner image
func (s *MediaServiceImpl) DeleteBanner(ctx context.Context, partnerID string) error {
	return s.remove(ctx, partnerID,
		func(p *domain.Partner) *domain.AssetDescriptor { return p.Banner },
		s.partners.SetBanner,
	)
}

type descriptorGetter func(*domain.Partner) *domain.AssetDescriptor
type descriptorSetter func(ctx context.Context, id string, desc *domain.AssetDescriptor) error

func (s *MediaServiceImpl) replace(ctx context.Context, partnerID string, file domain.UploadFile, folder string, get descriptorGetter, set descriptorSetter) (*domain.AssetDescriptor, error) {
	if err := s.validator.Validate(file); err != nil {
		return nil, err
	}

	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	old := get(partner)

	desc, err := s.store.Upload(ctx, file.Data, file.Name, folder)
	if err != nil {
		return nil, err
	}

	if err := set(ctx, partnerID, desc); err != nil {
		// The profile still references the old object; try not to leak the
		// one we just wrote.
		s.cleanup(ctx, desc)
		return nil, err
	}

	// Old object is deleted only after the new descriptor is durably
	// attached, so there is no window with zero valid media.
	if !old.IsZero() {
		s.cleanup(ctx, old)
	}
	return desc, nil
}

func (s *MediaServiceImpl) remove(ctx context.Context, partnerID string, get descriptorGetter, set descriptorSetter) error {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return err
	}
	old := get(partner)
	if old.IsZero() {
		return domain.ErrNoAsset
	}

	// Persist the unset first; remote deletion is best-effort after.
	if err := set(ctx, partnerID, nil); err != nil {
		return err
	}
	s.cleanup(ctx, old)
	return nil
}

// cleanup deletes a superseded or detached object, logging failures instead
// of propagating them
func (s *MediaServiceImpl) cleanup(ctx context.Context, desc *domain.AssetDescriptor) {
	if desc.IsZero() {
		return
	}
	if err := s.store.Delete(ctx, desc.StoragePath, desc.ContentHash); err != nil {
		log.Printf("Warning: failed to delete %s from content repository: %v", desc.StoragePath, err)
	}
}
