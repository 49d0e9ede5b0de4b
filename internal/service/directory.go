package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gharseva/gharseva-api/internal/domain"
)

const directoryCacheTTL = 5 * time.Minute

// DirectoryServiceImpl implements domain.DirectoryService. Ranked category
// and name searches are cached briefly in Redis; proximity queries are not,
// since every caller's point differs.
type DirectoryServiceImpl struct {
	partners domain.PartnerRepository
	users    domain.UserRepository
	cache    domain.DirectoryCache
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(partners domain.PartnerRepository, users domain.UserRepository, cache domain.DirectoryCache) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		partners: partners,
		users:    users,
		cache:    cache,
	}
}

// FindNearby returns active, verified partners within maxDistanceMeters of
// point, closest first
func (s *DirectoryServiceImpl) FindNearby(ctx context.Context, point domain.GeoPoint, maxDistanceMeters int, filter domain.DirectoryFilter) ([]domain.PartnerSummary, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = domain.DefaultMaxDistanceMeters
	}

	partners, err := s.partners.FindNearby(ctx, point, maxDistanceMeters, filter)
	if err != nil {
		return nil, fmt.Errorf("nearby search failed: %w", err)
	}
	return toSummaries(partners), nil
}

// FindByCategory returns the top partners for a category, best rated first
func (s *DirectoryServiceImpl) FindByCategory(ctx context.Context, category string, limit int64) ([]domain.PartnerSummary, error) {
	if !domain.IsValidCategory(category) {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown service category %q", category))
	}
	if limit <= 0 {
		limit = domain.DefaultDirectoryLimit
	}

	key := fmt.Sprintf("category:%s:%d", category, limit)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	partners, err := s.partners.FindByCategory(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("category search failed: %w", err)
	}

	summaries := toSummaries(partners)
	s.toCache(ctx, key, summaries)
	return summaries, nil
}

// SearchByServiceName matches service names case-insensitively by substring
func (s *DirectoryServiceImpl) SearchByServiceName(ctx context.Context, name string, limit int64) ([]domain.PartnerSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("service name is required")
	}
	if limit <= 0 {
		limit = domain.DefaultDirectoryLimit
	}

	key := fmt.Sprintf("search:%s:%d", strings.ToLower(name), limit)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	partners, err := s.partners.SearchByServiceName(ctx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("service name search failed: %w", err)
	}

	summaries := toSummaries(partners)
	s.toCache(ctx, key, summaries)
	return summaries, nil
}

// FindNearbyUsers returns active seekers within maxDistanceMeters of point,
// closest first. Uncached, like partner proximity queries.
func (s *DirectoryServiceImpl) FindNearbyUsers(ctx context.Context, point domain.GeoPoint, maxDistanceMeters int) ([]domain.UserSummary, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = domain.DefaultMaxDistanceMeters
	}

	users, err := s.users.FindNearby(ctx, point, maxDistanceMeters)
	if err != nil {
		return nil, fmt.Errorf("nearby user search failed: %w", err)
	}

	summaries := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, domain.NewUserSummary(u))
	}
	return summaries, nil
}

// fromCache returns a cached result set, or nil on miss or cache failure
func (s *DirectoryServiceImpl) fromCache(ctx context.Context, key string) []domain.PartnerSummary {
	if s.cache == nil {
		return nil
	}
	summaries, err := s.cache.GetSummaries(ctx, key)
	if err != nil {
		log.Printf("Warning: directory cache read failed: %v", err)
		return nil
	}
	return summaries
}

func (s *DirectoryServiceImpl) toCache(ctx context.Context, key string, summaries []domain.PartnerSummary) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSummaries(ctx, key, summaries, directoryCacheTTL); err != nil {
		log.Printf("Warning: directory cache write failed: %v", err)
	}
}

func toSummaries(partners []*domain.Partner) []domain.PartnerSummary {
	summaries := make([]domain.PartnerSummary, 0, len(partners))
	for _, p := range partners {
		summaries = append(summaries, domain.NewPartnerSummary(p))
	}
	return summaries
}
