package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/gharseva/gharseva-api/internal/middleware"
)

// AuthService is the slice of the auth service the handler depends on
type AuthService interface {
	RegisterPartner(ctx context.Context, partner *domain.Partner, password string) (*domain.Partner, string, error)
	LoginPartner(ctx context.Context, email, password string) (*domain.Partner, string, error)
	RegisterUser(ctx context.Context, user *domain.User, password string) (*domain.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*domain.User, string, error)
	ChangePartnerPassword(ctx context.Context, partnerID, current, next string) error
	ChangeUserPassword(ctx context.Context, userID, current, next string) error
}

// AuthHandler handles registration and login for both account types
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerPartnerRequest struct {
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	Password     string             `json:"password"`
	BusinessName string             `json:"business_name"`
	BusinessType string             `json:"business_type"`
	Description  string             `json:"description"`
	Services     []domain.Service   `json:"services"`
	Address      domain.Address     `json:"address"`
	Location     *domain.GeoPoint   `json:"location"`
	VisitingFee  domain.VisitingFee `json:"visiting_fee"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Account interface{} `json:"account"`
	Token   string      `json:"token"`
}

// RegisterPartner handles POST /v1/auth/partners/register
func (h *AuthHandler) RegisterPartner(c *fiber.Ctx) error {
	var req registerPartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	partner := &domain.Partner{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		Description:  req.Description,
		Services:     req.Services,
		Address:      req.Address,
		Location:     req.Location,
		VisitingFee:  req.VisitingFee,
	}

	created, token, err := h.auth.RegisterPartner(c.Context(), partner, req.Password)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusCreated, "partner registered", authResponse{Account: created, Token: token})
}

// LoginPartner handles POST /v1/auth/partners/login
func (h *AuthHandler) LoginPartner(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	partner, token, err := h.auth.LoginPartner(c.Context(), req.Email, req.Password)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "login successful", authResponse{Account: partner, Token: token})
}

type registerUserRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	Password string           `json:"password"`
	Location *domain.GeoPoint `json:"location"`
}

// RegisterUser handles POST /v1/auth/users/register
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req registerUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	user := &domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	}

	created, token, err := h.auth.RegisterUser(c.Context(), user, req.Password)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusCreated, "user registered", authResponse{Account: created, Token: token})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePartnerPassword handles PUT /v1/partners/me/password
func (h *AuthHandler) ChangePartnerPassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	if err := h.auth.ChangePartnerPassword(c.Context(), middleware.GetAccountID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "password changed", nil)
}

// ChangeUserPassword handles PUT /v1/users/me/password
func (h *AuthHandler) ChangeUserPassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	if err := h.auth.ChangeUserPassword(c.Context(), middleware.GetAccountID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "password changed", nil)
}

// LoginUser handles POST /v1/auth/users/login
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	user, token, err := h.auth.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "login successful", authResponse{Account: user, Token: token})
}
