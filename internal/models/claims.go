package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims carried by authenticated requests.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
