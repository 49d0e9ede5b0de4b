package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/gharseva/gharseva-api/internal/middleware"
)

// UserService is the slice of the seeker service the handler depends on
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.UserProfileUpdate) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID string, file domain.UploadFile) (*domain.AssetDescriptor, error)
	DeleteAvatar(ctx context.Context, userID string) error
	Deactivate(ctx context.Context, userID string) error
}

// UserHandler handles seeker account endpoints
type UserHandler struct {
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile handles GET /v1/users/me
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.users.GetProfile(c.Context(), middleware.GetAccountID(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "", user)
}

// UpdateProfile handles PUT /v1/users/me
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var update domain.UserProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	user, err := h.users.UpdateProfile(c.Context(), middleware.GetAccountID(c), update)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "profile updated", user)
}

// UpdateAvatar handles PUT /v1/users/me/avatar
func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	file, err := formFile(c, "avatar")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	desc, err := h.users.UpdateAvatar(c.Context(), middleware.GetAccountID(c), file)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "avatar updated", desc)
}

// DeleteAvatar handles DELETE /v1/users/me/avatar
func (h *UserHandler) DeleteAvatar(c *fiber.Ctx) error {
	if err := h.users.DeleteAvatar(c.Context(), middleware.GetAccountID(c)); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "avatar deleted", nil)
}

// Deactivate handles POST /v1/users/me/deactivate
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.users.Deactivate(c.Context(), middleware.GetAccountID(c)); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "account deactivated", nil)
}
