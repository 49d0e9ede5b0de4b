package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceImpl handles registration, login and token issuance for both
// partner and seeker accounts
type AuthServiceImpl struct {
	partners  domain.PartnerRepository
	users     domain.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(partners domain.PartnerRepository, users domain.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{
		partners:  partners,
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterPartner creates a partner account and returns it with a signed token
func (s *AuthServiceImpl) RegisterPartner(ctx context.Context, partner *domain.Partner, password string) (*domain.Partner, string, error) {
	if partner.Email == "" || partner.Phone == "" || password == "" {
		return nil, "", domain.NewValidationError("email, phone and password are required")
	}
	if partner.Location != nil {
		if err := partner.Location.Validate(); err != nil {
			return nil, "", err
		}
	}

	exists, err := s.partners.ExistsByEmailOrPhone(ctx, partner.Email, partner.Phone)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	partner.Password = string(hash)
	partner.Role = domain.RolePartner
	partner.IsActive = true
	if partner.VisitingFee == (domain.VisitingFee{}) {
		partner.VisitingFee = domain.VisitingFee{Currency: "INR", Description: "Home visit fee", IsActive: true}
	}

	if err := s.partners.Create(ctx, partner); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(partner.ID, domain.RolePartner)
	if err != nil {
		return nil, "", err
	}
	partner.Password = ""
	return partner, token, nil
}

// LoginPartner verifies credentials and returns the partner with a token
func (s *AuthServiceImpl) LoginPartner(ctx context.Context, email, password string) (*domain.Partner, string, error) {
	partner, err := s.partners.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists
		return nil, "", domain.ErrInvalidCredentials
	}
	if !partner.IsActive {
		return nil, "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(partner.Password), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(partner.ID, domain.RolePartner)
	if err != nil {
		return nil, "", err
	}
	partner.Password = ""
	return partner, token, nil
}

// RegisterUser creates a seeker account and returns it with a signed token
func (s *AuthServiceImpl) RegisterUser(ctx context.Context, user *domain.User, password string) (*domain.User, string, error) {
	if user.Email == "" || user.Phone == "" || password == "" {
		return nil, "", domain.NewValidationError("email, phone and password are required")
	}
	if user.Location != nil {
		if err := user.Location.Validate(); err != nil {
			return nil, "", err
		}
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, user.Email, user.Phone)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)
	user.Role = domain.RoleUser
	user.IsActive = true

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user.ID, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	user.Password = ""
	return user, token, nil
}

// LoginUser verifies credentials and returns the user with a token
func (s *AuthServiceImpl) LoginUser(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	user.Password = ""
	return user, token, nil
}

// ChangePartnerPassword verifies the current password and replaces the hash
func (s *AuthServiceImpl) ChangePartnerPassword(ctx context.Context, partnerID, current, next string) error {
	if next == "" {
		return domain.NewValidationError("new password is required")
	}

	// GetByID strips the hash; re-read through the auth-only email lookup.
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return err
	}
	withHash, err := s.partners.GetByEmail(ctx, partner.Email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(withHash.Password), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.partners.UpdatePassword(ctx, partnerID, string(hash))
}

// ChangeUserPassword verifies the current password and replaces the hash
func (s *AuthServiceImpl) ChangeUserPassword(ctx context.Context, userID, current, next string) error {
	if next == "" {
		return domain.NewValidationError("new password is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	withHash, err := s.users.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(withHash.Password), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *AuthServiceImpl) generateToken(accountID, role string) (string, error) {
	now := time.Now()
	claims := domain.AuthClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
