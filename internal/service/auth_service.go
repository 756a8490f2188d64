package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// tokenTTL bounds an admin session.
const tokenTTL = 24 * time.Hour

// AuthService handles administrator authentication. Credentials live
// server-side: a username and a bcrypt password hash from configuration.
type AuthService struct {
	adminUsername     string
	adminPasswordHash []byte
	jwtSecret         []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(adminUsername, adminPasswordHash, jwtSecret string) *AuthService {
	return &AuthService{
		adminUsername:     adminUsername,
		adminPasswordHash: []byte(adminPasswordHash),
		jwtSecret:         []byte(jwtSecret),
	}
}

// Login validates credentials and issues a signed token.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.adminUsername {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	claims := &model.AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: tokenString, Username: username}, nil
}

// ValidateToken validates an admin JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*model.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
