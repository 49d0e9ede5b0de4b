package service

import (
	"context"
	"log"

	"github.com/gharseva/gharseva-api/internal/domain"
)

const userAvatarFolder = "users/avatars"

// UserServiceImpl handles seeker profile and avatar operations. The avatar
// lifecycle follows the same ordering contract as partner media: upload the
// replacement before touching the old object, persist before any remote
// delete, and never fail the user action on a best-effort cleanup.
type UserServiceImpl struct {
	users     domain.UserRepository
	store     domain.AssetStore
	validator *UploadValidator
}

// NewUserService creates a new seeker profile service
func NewUserService(users domain.UserRepository, store domain.AssetStore, validator *UploadValidator) *UserServiceImpl {
	return &UserServiceImpl{
		users:     users,
		store:     store,
		validator: validator,
	}
}

// GetProfile returns the seeker's own profile, password excluded
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to mutable profile fields
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, update domain.UserProfileUpdate) (*domain.User, error) {
	if update.Location != nil {
		if err := update.Location.Validate(); err != nil {
			return nil, err
		}
	}
	if !update.IsZero() {
		if err := s.users.UpdateProfile(ctx, userID, update); err != nil {
			return nil, err
		}
	}
	return s.users.GetByID(ctx, userID)
}

// UpdateAvatar replaces the seeker's avatar
func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, userID string, file domain.UploadFile) (*domain.AssetDescriptor, error) {
	if err := s.validator.Validate(file); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := user.Avatar

	desc, err := s.store.Upload(ctx, file.Data, file.Name, userAvatarFolder)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetAvatar(ctx, userID, desc); err != nil {
		s.cleanup(ctx, desc)
		return nil, err
	}

	if !old.IsZero() {
		s.cleanup(ctx, old)
	}
	return desc, nil
}

// DeleteAvatar removes the seeker's avatar
func (s *UserServiceImpl) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	old := user.Avatar
	if old.IsZero() {
		return domain.ErrNoAsset
	}

	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		return err
	}
	s.cleanup(ctx, old)
	return nil
}

// Deactivate marks the seeker account inactive, hiding it from nearby
// queries and blocking login
func (s *UserServiceImpl) Deactivate(ctx context.Context, userID string) error {
	return s.users.SetActive(ctx, userID, false)
}

func (s *UserServiceImpl) cleanup(ctx context.Context, desc *domain.AssetDescriptor) {
	if desc.IsZero() {
		return
	}
	if err := s.store.Delete(ctx, desc.StoragePath, desc.ContentHash); err != nil {
		log.Printf("Warning: failed to delete %s from content repository: %v", desc.StoragePath, err)
	}
}
