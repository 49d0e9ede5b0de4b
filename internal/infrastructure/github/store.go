package github

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// batchUploadLimit bounds the fan-out of concurrent contents API calls in a
// single batch. GitHub throttles aggressively on parallel writes to one repo.
const batchUploadLimit = 4

// Store implements domain.AssetStore on top of the GitHub contents API
type Store struct {
	client *Client
}

// NewStore creates a new asset store
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// Upload writes data under a freshly generated path and returns the
// descriptor for the new object. The ULID prefix keeps concurrent uploads
// of identically named files from colliding.
func (s *Store) Upload(ctx context.Context, data []byte, originalName, folder string) (*domain.AssetDescriptor, error) {
	storagePath := fmt.Sprintf("%s/%s_%s", folder, ulid.Make().String(), sanitizeName(originalName))

	result, err := s.client.PutContents(ctx, storagePath, data, "Upload image: "+storagePath, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	return &domain.AssetDescriptor{
		URL:         result.DownloadURL,
		StoragePath: storagePath,
		ContentHash: result.SHA,
	}, nil
}

// UploadBatch uploads all files concurrently and returns descriptors
// index-aligned with the input. Any single failure fails the batch; siblings
// already uploaded are not rolled back.
func (s *Store) UploadBatch(ctx context.Context, files []domain.UploadFile, folder string) ([]*domain.AssetDescriptor, error) {
	descriptors := make([]*domain.AssetDescriptor, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchUploadLimit)

	for i, file := range files {
		g.Go(func() error {
			name := file.Name
			if name == "" {
				name = fmt.Sprintf("image_%d.jpg", i)
			}
			desc, err := s.Upload(gctx, file.Data, name, folder)
			if err != nil {
				return fmt.Errorf("image %d: %w", i+1, err)
			}
			descriptors[i] = desc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// Update replaces the object at storagePath, gated on expectedHash
func (s *Store) Update(ctx context.Context, storagePath string, data []byte, expectedHash string) (*domain.AssetDescriptor, error) {
	result, err := s.client.PutContents(ctx, storagePath, data, "Update image: "+storagePath, expectedHash)
	if err != nil {
		if isConflictOrMissing(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	return &domain.AssetDescriptor{
		URL:         result.DownloadURL,
		StoragePath: storagePath,
		ContentHash: result.SHA,
	}, nil
}

// Delete removes the object at storagePath, gated on expectedHash
func (s *Store) Delete(ctx context.Context, storagePath string, expectedHash string) error {
	err := s.client.DeleteContents(ctx, storagePath, expectedHash, "Delete image: "+storagePath)
	if err != nil {
		if isConflictOrMissing(err) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrDeleteFailed, err)
	}
	return nil
}

func isConflictOrMissing(err error) bool {
	return errors.Is(err, domain.ErrConcurrencyConflict) || errors.Is(err, domain.ErrNotFound)
}

// sanitizeName strips path components and characters that would break the
// contents API path
func sanitizeName(name string) string {
	name = path.Base(name)
	replacer := strings.NewReplacer(" ", "_", "#", "", "?", "", "%", "")
	name = replacer.Replace(name)
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}
