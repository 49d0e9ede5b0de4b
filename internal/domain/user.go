package domain

import (
	"context"
	"time"
)

// User is a service-seeking account. Password carries the bcrypt hash and
// is never serialized. Location lets partners discover nearby seekers.
type User struct {
	ID       string `bson:"-" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Password string `bson:"password,omitempty" json:"-"`
	Role     string `bson:"role" json:"role"`
	IsActive bool   `bson:"is_active" json:"is_active"`

	Location *GeoPoint        `bson:"location,omitempty" json:"location,omitempty"`
	Avatar   *AssetDescriptor `bson:"avatar,omitempty" json:"avatar,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserSummary is the shape partners see when browsing nearby seekers.
// Contact details are absent from the type itself.
type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  *GeoPoint `json:"location,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// NewUserSummary projects a user into its discoverable shape
func NewUserSummary(u *User) UserSummary {
	s := UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Location: u.Location,
	}
	if !u.Avatar.IsZero() {
		s.AvatarURL = u.Avatar.URL
	}
	return s
}

// UserProfileUpdate is a partial update of mutable seeker profile fields.
// Credentials and role are deliberately not representable here.
type UserProfileUpdate struct {
	Name     *string   `json:"name,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

// IsZero reports whether the update changes nothing
func (u UserProfileUpdate) IsZero() bool {
	return u.Name == nil && u.Location == nil
}

// Role constants
const (
	RoleUser    = "user"
	RolePartner = "partner"
	RoleAdmin   = "admin"
)

// UserRepository defines persistence operations for seeker accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	UpdateProfile(ctx context.Context, id string, update UserProfileUpdate) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error

	// Avatar field; a nil descriptor unsets it
	SetAvatar(ctx context.Context, id string, desc *AssetDescriptor) error

	// Proximity query over the 2dsphere index; password excluded by projection
	FindNearby(ctx context.Context, point GeoPoint, maxDistanceMeters int) ([]*User, error)
}
