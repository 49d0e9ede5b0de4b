package domain

import (
	"context"
	"time"
)

// PortfolioKind distinguishes before/after shots in a partner's portfolio
type PortfolioKind string

const (
	KindBefore PortfolioKind = "before"
	KindAfter  PortfolioKind = "after"
)

// Valid reports whether the kind is one of the allowed values
func (k PortfolioKind) Valid() bool {
	return k == KindBefore || k == KindAfter
}

// Service is one offering in a partner's catalogue
type Service struct {
	Name            string  `bson:"name" json:"name"`
	Category        string  `bson:"category" json:"category"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64 `bson:"price" json:"price"`
	DurationMinutes int     `bson:"duration" json:"duration"`
	IsActive        bool    `bson:"is_active" json:"is_active"`
}

// ServiceCategories is the closed set of accepted service categories
var ServiceCategories = []string{
	"home_repair", "cleaning", "plumbing", "electrical", "painting",
	"carpentry", "gardening", "pest_control", "ac_repair", "appliance_repair",
	"automotive", "beauty", "health", "education", "other",
}

// IsValidCategory checks membership in ServiceCategories
func IsValidCategory(category string) bool {
	for _, c := range ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// VisitingFee is the charge for a home visit
type VisitingFee struct {
	Amount      float64 `bson:"amount" json:"amount"`
	Currency    string  `bson:"currency" json:"currency"`
	Description string  `bson:"description" json:"description"`
	IsActive    bool    `bson:"is_active" json:"is_active"`
}

// Address is the partner's business address
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zip_code" json:"zip_code"`
	Country string `bson:"country" json:"country"`
}

// PortfolioItem is one before/after image in a partner's portfolio.
// The asset descriptor is inlined so the stored document carries
// url/file_path/sha alongside the item metadata. Identity is the ID,
// never the array position.
type PortfolioItem struct {
	ID         string          `bson:"_id" json:"id"`
	Kind       PortfolioKind   `bson:"kind" json:"kind"`
	Asset      AssetDescriptor `bson:",inline" json:"asset"`
	Caption    string          `bson:"caption" json:"caption"`
	Location   *GeoPoint       `bson:"loc,omitempty" json:"loc,omitempty"`
	UploadedAt time.Time       `bson:"uploaded_at" json:"uploaded_at"`
}

// PortfolioPatch is a partial update for a portfolio item. Nil fields are
// left untouched; a non-nil empty Caption clears the stored caption.
type PortfolioPatch struct {
	Kind     *PortfolioKind
	Caption  *string
	Location *GeoPoint
}

// IsZero reports whether the patch changes nothing
func (p PortfolioPatch) IsZero() bool {
	return p.Kind == nil && p.Caption == nil && p.Location == nil
}

// Partner is a service-providing account. Password carries the bcrypt hash
// and is excluded from every JSON response by construction.
type Partner struct {
	ID           string `bson:"-" json:"id"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	Phone        string `bson:"phone" json:"phone"`
	Password     string `bson:"password,omitempty" json:"-"`
	BusinessName string `bson:"business_name" json:"business_name"`
	BusinessType string `bson:"business_type" json:"business_type"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`

	Services    []Service   `bson:"services" json:"services"`
	VisitingFee VisitingFee `bson:"visiting_fee" json:"visiting_fee"`

	Address  Address   `bson:"address" json:"address"`
	Location *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`

	Avatar    *AssetDescriptor `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Banner    *AssetDescriptor `bson:"banner_image,omitempty" json:"banner_image,omitempty"`
	Portfolio []PortfolioItem  `bson:"portfolio_images" json:"portfolio_images"`

	Rating       float64 `bson:"rating" json:"rating"`
	TotalReviews int     `bson:"total_reviews" json:"total_reviews"`

	IsVerified bool   `bson:"is_verified" json:"is_verified"`
	IsActive   bool   `bson:"is_active" json:"is_active"`
	Role       string `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PartnerSummary is the directory search result shape. Sensitive fields are
// absent from the type itself, not filtered after the fact.
type PartnerSummary struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BusinessName string       `json:"business_name"`
	Location     *GeoPoint    `json:"location,omitempty"`
	Rating       float64      `json:"rating"`
	TotalReviews int          `json:"total_reviews"`
	Services     []Service    `json:"services"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	VisitingFee  *VisitingFee `json:"visiting_fee,omitempty"`
}

// NewPartnerSummary projects a partner into its public directory shape
func NewPartnerSummary(p *Partner) PartnerSummary {
	s := PartnerSummary{
		ID:           p.ID,
		Name:         p.Name,
		BusinessName: p.BusinessName,
		Location:     p.Location,
		Rating:       p.Rating,
		TotalReviews: p.TotalReviews,
		Services:     p.Services,
	}
	if !p.Avatar.IsZero() {
		s.AvatarURL = p.Avatar.URL
	}
	if p.VisitingFee.IsActive {
		fee := p.VisitingFee
		s.VisitingFee = &fee
	}
	return s
}

// DirectoryFilter narrows a proximity query. All predicates are optional
// and conjunctive when present.
type DirectoryFilter struct {
	Category    string
	ServiceName string
	MinRating   float64
}

// ProfileUpdate is a partial update of mutable profile fields. Credentials
// and role are deliberately not representable here.
type ProfileUpdate struct {
	Name         *string   `json:"name,omitempty"`
	BusinessName *string   `json:"business_name,omitempty"`
	BusinessType *string   `json:"business_type,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
}

// PartnerRepository defines persistence operations for partners
type PartnerRepository interface {
	Create(ctx context.Context, partner *Partner) error
	GetByID(ctx context.Context, id string) (*Partner, error)
	GetByEmail(ctx context.Context, email string) (*Partner, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*Partner, error)
	UpdateServices(ctx context.Context, id string, services []Service) error
	UpdateVisitingFee(ctx context.Context, id string, fee VisitingFee) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Media fields; a nil descriptor unsets the field
	SetAvatar(ctx context.Context, id string, desc *AssetDescriptor) error
	SetBanner(ctx context.Context, id string, desc *AssetDescriptor) error

	// Portfolio sub-collection, keyed by item id
	AddPortfolioItems(ctx context.Context, id string, items []PortfolioItem) error
	GetPortfolioItem(ctx context.Context, id, itemID string) (*PortfolioItem, error)
	UpdatePortfolioItem(ctx context.Context, id, itemID string, patch PortfolioPatch) error
	RemovePortfolioItem(ctx context.Context, id, itemID string) error

	// Directory queries; password excluded by projection
	FindNearby(ctx context.Context, point GeoPoint, maxDistanceMeters int, filter DirectoryFilter) ([]*Partner, error)
	FindByCategory(ctx context.Context, category string, limit int64) ([]*Partner, error)
	SearchByServiceName(ctx context.Context, name string, limit int64) ([]*Partner, error)
}
