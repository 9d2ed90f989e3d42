package biz

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/store"
)

// AuthConfig configures token signing.
type AuthConfig struct {
	// Secret signs HS256 tokens. Required.
	Secret string `conf:"secret" yaml:"secret" json:"secret"`

	// TokenTTL is the token lifetime. Defaults to 7 days.
	TokenTTL time.Duration `conf:"token_ttl" yaml:"token_ttl" json:"token_ttl"`
}

type AuthServiceParams struct {
	fx.In

	Config AuthConfig
	Store  store.Store
}

// AuthService authenticates users and issues JWT tokens. Tokens carry the
// user id and optionally an organization claim used as an alternative to
// the organization header at the request boundary.
type AuthService struct {
	config AuthConfig
	store  store.Store
}

func NewAuthService(params AuthServiceParams) *AuthService {
	if params.Config.TokenTTL == 0 {
		params.Config.TokenTTL = 7 * 24 * time.Hour
	}

	return &AuthService{
		config: params.Config,
		store:  params.Store,
	}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hex.EncodeToString(hashedPassword), nil
}

// VerifyPassword verifies a password against a hash.
func VerifyPassword(hashedPassword, password string) error {
	decodedHashedPassword, err := hex.DecodeString(hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to decode hashed password: %w", err)
	}

	return bcrypt.CompareHashAndPassword(decodedHashedPassword, []byte(password))
}

// AuthenticateUser authenticates a user with email and password.
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*objects.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidPassword
		}

		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidPassword
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// Claims are the token claims issued by the service.
type Claims struct {
	UserID         uuid.UUID
	OrganizationID *uuid.UUID
}

// GenerateJWTToken issues a token for the user. When an organization id is
// given it is embedded as a claim, letting clients omit the organization
// header.
func (s *AuthService) GenerateJWTToken(_ context.Context, user *objects.User, organizationID *uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"exp":     time.Now().Add(s.config.TokenTTL).Unix(),
	}

	if organizationID != nil {
		claims["organization_id"] = organizationID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// AuthenticateJWTToken validates a token and returns its claims.
func (s *AuthService) AuthenticateJWTToken(_ context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidJWT
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidJWT
	}

	rawUserID, ok := mapClaims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidJWT
	}

	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, ErrInvalidJWT
	}

	claims := &Claims{UserID: userID}

	if rawOrgID, ok := mapClaims["organization_id"].(string); ok {
		orgID, err := uuid.Parse(rawOrgID)
		if err != nil {
			return nil, ErrInvalidJWT
		}

		claims.OrganizationID = &orgID
	}

	return claims, nil
}

// GetUser loads a user by id, mapping the store error to the taxonomy.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*objects.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// RegisterUser creates a new user account with a hashed password.
func (s *AuthService) RegisterUser(ctx context.Context, email, name, password string) (*objects.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := objects.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("email already registered")
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}
