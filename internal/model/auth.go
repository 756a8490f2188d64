package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued admin token.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// AdminClaims are the JWT claims for an authenticated administrator.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
