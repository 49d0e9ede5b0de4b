package domain

import (
	"context"
	"time"
)

// DefaultMaxDistanceMeters is the search radius applied when the caller
// does not provide one.
const DefaultMaxDistanceMeters = 10000

// DefaultDirectoryLimit caps ranked category/name queries by default
const DefaultDirectoryLimit = 20

// DirectoryService locates active, verified partners and, for partners,
// nearby seekers
type DirectoryService interface {
	FindNearby(ctx context.Context, point GeoPoint, maxDistanceMeters int, filter DirectoryFilter) ([]PartnerSummary, error)
	FindByCategory(ctx context.Context, category string, limit int64) ([]PartnerSummary, error)
	SearchByServiceName(ctx context.Context, name string, limit int64) ([]PartnerSummary, error)
	FindNearbyUsers(ctx context.Context, point GeoPoint, maxDistanceMeters int) ([]UserSummary, error)
}

// DirectoryCache caches ranked directory results. A miss is (nil, nil);
// cache failures must never fail the query they shadow.
type DirectoryCache interface {
	GetSummaries(ctx context.Context, key string) ([]PartnerSummary, error)
	SetSummaries(ctx context.Context, key string, summaries []PartnerSummary, ttl time.Duration) error
}

// MediaService owns the avatar/banner lifecycle for a partner profile
type MediaService interface {
	UpdateAvatar(ctx context.Context, partnerID string, file UploadFile) (*AssetDescriptor, error)
	UpdateBanner(ctx context.Context, partnerID string, file UploadFile) (*AssetDescriptor, error)
	DeleteAvatar(ctx context.Context, partnerID string) error
	DeleteBanner(ctx context.Context, partnerID string) error
}

// PortfolioService owns the partner's before/after image collection
type PortfolioService interface {
	AddBatch(ctx context.Context, partnerID string, files []UploadFile, kinds, captions, locations []string) ([]PortfolioItem, error)
	UpdateItem(ctx context.Context, partnerID, itemID string, patch PortfolioPatch) (*PortfolioItem, error)
	DeleteItem(ctx context.Context, partnerID, itemID string) error
}
