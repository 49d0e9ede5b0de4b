package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gharseva/gharseva-api/internal/domain"
)

// DirectoryHandler handles public partner discovery endpoints
type DirectoryHandler struct {
	directory domain.DirectoryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory domain.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// FindNearby handles GET /v1/directory/nearby?lng=&lat=&max_distance=&category=&service_name=&min_rating=
func (h *DirectoryHandler) FindNearby(c *fiber.Ctx) error {
	point, err := queryPoint(c)
	if err != nil {
		return failErr(c, err)
	}
	maxDistance, err := queryMaxDistance(c)
	if err != nil {
		return failErr(c, err)
	}

	filter := domain.DirectoryFilter{
		Category:    c.Query("category"),
		ServiceName: c.Query("service_name"),
	}
	if raw := c.Query("min_rating"); raw != "" {
		minRating, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			return fail(c, fiber.StatusBadRequest, "query parameter 'min_rating' must be a number")
		}
		filter.MinRating = minRating
	}

	summaries, err := h.directory.FindNearby(c.Context(), *point, maxDistance, filter)
	if err != nil {
		return failErr(c, err)
	}
	return okList(c, summaries, len(summaries))
}

// FindNearbyUsers handles GET /v1/partners/me/nearby-users?lng=&lat=&max_distance=
func (h *DirectoryHandler) FindNearbyUsers(c *fiber.Ctx) error {
	point, err := queryPoint(c)
	if err != nil {
		return failErr(c, err)
	}
	maxDistance, err := queryMaxDistance(c)
	if err != nil {
		return failErr(c, err)
	}

	summaries, err := h.directory.FindNearbyUsers(c.Context(), *point, maxDistance)
	if err != nil {
		return failErr(c, err)
	}
	return okList(c, summaries, len(summaries))
}

// ListCategories handles GET /v1/directory/categories
func (h *DirectoryHandler) ListCategories(c *fiber.Ctx) error {
	return okList(c, domain.ServiceCategories, len(domain.ServiceCategories))
}

// FindByCategory handles GET /v1/directory/categories/:category?limit=
func (h *DirectoryHandler) FindByCategory(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", domain.DefaultDirectoryLimit))

	summaries, err := h.directory.FindByCategory(c.Context(), c.Params("category"), limit)
	if err != nil {
		return failErr(c, err)
	}
	return okList(c, summaries, len(summaries))
}

// SearchByServiceName handles GET /v1/directory/search?service_name=&limit=
func (h *DirectoryHandler) SearchByServiceName(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", domain.DefaultDirectoryLimit))

	summaries, err := h.directory.SearchByServiceName(c.Context(), c.Query("service_name"), limit)
	if err != nil {
		return failErr(c, err)
	}
	return okList(c, summaries, len(summaries))
}

// queryPoint parses the lng/lat query pair into a validated point
func queryPoint(c *fiber.Ctx) (*domain.GeoPoint, error) {
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return nil, domain.NewValidationError("query parameter 'lng' must be a number")
	}
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return nil, domain.NewValidationError("query parameter 'lat' must be a number")
	}
	return domain.NewGeoPoint(lng, lat)
}

// queryMaxDistance parses the optional max_distance parameter, applying the
// default radius when it is absent. Malformed values are rejected, not
// silently defaulted.
func queryMaxDistance(c *fiber.Ctx) (int, error) {
	raw := c.Query("max_distance")
	if raw == "" {
		return domain.DefaultMaxDistanceMeters, nil
	}
	maxDistance, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("query parameter 'max_distance' must be a number")
	}
	return maxDistance, nil
}
