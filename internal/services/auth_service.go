package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

var (
	ErrUserExists         = errors.New("user already exists with this email or username")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// GoogleClaims are the fields the auth service needs from a verified Google
// ID token.
type GoogleClaims struct {
	Email   string
	Name    string
	Subject string
}

// GoogleVerifier checks an ID token against the provider's public keys and
// the expected audience. Swappable in tests.
type GoogleVerifier func(ctx context.Context, rawToken, audience string) (*GoogleClaims, error)

type AuthService struct {
	db           *gorm.DB
	cfg          *config.Config
	verifyGoogle GoogleVerifier
}

type RegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=50"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is a signed token plus the public user fields; the credential
// never leaves the service.
type AuthResult struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:           db,
		cfg:          cfg,
		verifyGoogle: verifyGoogleIDToken,
	}
}

// SetGoogleVerifier replaces the ID-token verifier; used by tests.
func (s *AuthService) SetGoogleVerifier(v GoogleVerifier) {
	s.verifyGoogle = v
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.User
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleUser
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     role,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateJWT(user.ID, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user.Public(), Token: token}, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// GoogleLogin verifies the external ID token and finds-or-creates a local
// user keyed by the verified email. A created user gets a username synthesized
// from the provider display name plus a suffix from the provider subject id,
// and the subject id stored as a placeholder credential since no password was
// supplied.
func (s *AuthService) GoogleLogin(ctx context.Context, rawIDToken string) (*AuthResult, error) {
	claims, err := s.verifyGoogle(ctx, rawIDToken, s.cfg.Google.ClientID)
	if err != nil {
		return nil, fmt.Errorf("google token verification failed: %w", err)
	}

	var user models.User
	err = s.db.Where("email = ?", claims.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Username: googleUsername(claims.Name, claims.Subject),
			Email:    claims.Email,
			Role:     models.UserRoleUser,
		}
		if err := user.SetPassword(claims.Subject); err != nil {
			return nil, fmt.Errorf("failed to set placeholder credential: %w", err)
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	token, err := utils.GenerateJWT(user.ID, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user.Public(), Token: token}, nil
}

// ValidateToken checks the bearer token's signature and expiry, then resolves
// the embedded user id against the store. A valid token whose user is gone
// fails with ErrUserNotFound.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func googleUsername(name, subject string) string {
	base := strings.Join(strings.Fields(name), "_")
	if base == "" {
		base = "google_user"
	}
	suffix := subject
	if len(suffix) > 5 {
		suffix = suffix[len(suffix)-5:]
	}
	return base + "_" + suffix
}

func verifyGoogleIDToken(ctx context.Context, rawToken, audience string) (*GoogleClaims, error) {
	payload, err := idtoken.Validate(ctx, rawToken, audience)
	if err != nil {
		return nil, err
	}

	claims := &GoogleClaims{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		claims.Name = name
	}

	if claims.Email == "" {
		return nil, errors.New("google token has no verified email")
	}

	return claims, nil
}
