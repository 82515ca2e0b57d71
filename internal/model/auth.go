package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims issued by the identity service
type UserClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
