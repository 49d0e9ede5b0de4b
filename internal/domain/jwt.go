package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents custom JWT claims issued on login
type AuthClaims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}
