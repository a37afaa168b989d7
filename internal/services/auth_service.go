package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tradedesk/internal/caching"
	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles user registration, login and JWT issuance.
type AuthService interface {
	Signup(ctx context.Context, tenantID uuid.UUID, email, password string, fullName *string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Logout(ctx context.Context, tokenID string) error
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenClaims carries the identity and tenant scope of an API call.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	TokenID  string `json:"token_id"`
	jwt.RegisteredClaims
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	UserID      string    `json:"user_id"`
	TenantID    string    `json:"tenant_id"`
	IssuedAt    time.Time `json:"issued_at"`
}

type authService struct {
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, sessionTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

func (s *authService) Signup(ctx context.Context, tenantID uuid.UUID, email, password string, fullName *string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email address is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		TokenID:  tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tradedesk-auth",
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{"tradedesk-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %v", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetSession(ctx, tokenID, user.ID.String(), s.sessionTTL); err != nil {
			log.Printf("WARN: failed to store session %s: %v", tokenID, err)
		}
	}

	return &TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.sessionTTL.Seconds()),
		UserID:      user.ID.String(),
		TenantID:    user.TenantID.String(),
		IssuedAt:    now,
	}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string) error {
	if s.cacheSvc == nil {
		return nil
	}
	return s.cacheSvc.DeleteSession(ctx, tokenID)
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	// A session deleted by logout invalidates the token before its expiry.
	if s.cacheSvc != nil && claims.TokenID != "" {
		userID, err := s.cacheSvc.GetSession(ctx, claims.TokenID)
		if err == nil && userID == "" {
			return nil, fmt.Errorf("session has been revoked")
		}
	}

	return claims, nil
}
