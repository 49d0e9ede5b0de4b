package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/gharseva/gharseva-api/internal/middleware"
)

// PartnerService is the slice of the partner profile service the handler
// depends on
type PartnerService interface {
	GetProfile(ctx context.Context, partnerID string) (*domain.Partner, error)
	GetDetails(ctx context.Context, partnerID string) (*domain.Partner, error)
	UpdateProfile(ctx context.Context, partnerID string, update domain.ProfileUpdate) (*domain.Partner, error)
	UpdateServices(ctx context.Context, partnerID string, services []domain.Service) error
	GetVisitingFee(ctx context.Context, partnerID string) (*domain.VisitingFee, error)
	UpdateVisitingFee(ctx context.Context, partnerID string, fee domain.VisitingFee) error
	Deactivate(ctx context.Context, partnerID string) error
}

// PartnerHandler handles partner profile endpoints
type PartnerHandler struct {
	partners PartnerService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(partners PartnerService) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// GetProfile handles GET /v1/partners/me
func (h *PartnerHandler) GetProfile(c *fiber.Ctx) error {
	partner, err := h.partners.GetProfile(c.Context(), middleware.GetAccountID(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "", partner)
}

// UpdateProfile handles PUT /v1/partners/me
func (h *PartnerHandler) UpdateProfile(c *fiber.Ctx) error {
	var update domain.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	partner, err := h.partners.UpdateProfile(c.Context(), middleware.GetAccountID(c), update)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "profile updated", partner)
}

type updateServicesRequest struct {
	Services []domain.Service `json:"services"`
}

// UpdateServices handles PUT /v1/partners/me/services
func (h *PartnerHandler) UpdateServices(c *fiber.Ctx) error {
	var req updateServicesRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	if err := h.partners.UpdateServices(c.Context(), middleware.GetAccountID(c), req.Services); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "services updated", nil)
}

// GetVisitingFee handles GET /v1/partners/me/visiting-fee
func (h *PartnerHandler) GetVisitingFee(c *fiber.Ctx) error {
	fee, err := h.partners.GetVisitingFee(c.Context(), middleware.GetAccountID(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "", fee)
}

// UpdateVisitingFee handles PUT /v1/partners/me/visiting-fee
func (h *PartnerHandler) UpdateVisitingFee(c *fiber.Ctx) error {
	var fee domain.VisitingFee
	if err := c.BodyParser(&fee); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	if err := h.partners.UpdateVisitingFee(c.Context(), middleware.GetAccountID(c), fee); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "visiting fee updated", nil)
}

// Deactivate handles POST /v1/partners/me/deactivate
func (h *PartnerHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.partners.Deactivate(c.Context(), middleware.GetAccountID(c)); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "account deactivated", nil)
}

// GetDetails handles GET /v1/partners/:id (public)
func (h *PartnerHandler) GetDetails(c *fiber.Ctx) error {
	partner, err := h.partners.GetDetails(c.Context(), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "", partner)
}
