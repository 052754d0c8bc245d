package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
)

var ErrProfileNotFound = errors.New("user profile not found")

var (
	addressKeys    = []string{"street", "city", "state", "zipCode", "country"}
	preferenceKeys = []string{"theme", "notifications"}
)

// UserService owns extended profile data keyed by the auth service's user id.
// Identity fields (username/email) are never stored here; they are merged in
// from the auth service on every profile read.
type UserService struct {
	db *gorm.DB
	rc *client.Client
}

type UpdateProfileRequest struct {
	FirstName   *string                `json:"firstName"`
	LastName    *string                `json:"lastName"`
	PhoneNumber *string                `json:"phoneNumber"`
	Address     map[string]interface{} `json:"address"`
	Preferences map[string]interface{} `json:"preferences"`
}

// ProfileView is a stored profile merged with the identity fields fetched
// from the auth service.
type ProfileView struct {
	UserID      string       `json:"userId"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	PhoneNumber string       `json:"phoneNumber"`
	Address     models.JSONB `json:"address"`
	Preferences models.JSONB `json:"preferences"`
}

func NewUserService(db *gorm.DB, rc *client.Client) *UserService {
	return &UserService{db: db, rc: rc}
}

// GetProfile lazily creates an empty profile on first access, then merges
// identity fields from the auth service, forwarding the caller's own bearer
// token. An auth-service failure fails the whole read.
func (s *UserService) GetProfile(ctx context.Context, userID, bearerToken string) (*ProfileView, error) {
	profile, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	authUser, err := s.rc.GetAuthUser(ctx, userID, bearerToken)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		UserID:      profile.UserID,
		Username:    authUser.Username,
		Email:       authUser.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		PhoneNumber: profile.PhoneNumber,
		Address:     profile.Address,
		Preferences: profile.Preferences,
	}, nil
}

// UpdateProfile creates-or-merges. Scalar fields are replaced only when
// present in the request; address and preferences are shallow-merged key by
// key, so an address update carrying only city leaves the other fields alone.
func (s *UserService) UpdateProfile(userID string, req *UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}

	if req.Address != nil {
		if profile.Address == nil {
			profile.Address = models.JSONB{}
		}
		mergeKeys(profile.Address, req.Address, addressKeys)
	}

	if req.Preferences != nil {
		if profile.Preferences == nil {
			profile.Preferences = models.DefaultPreferences()
		}
		mergeKeys(profile.Preferences, req.Preferences, preferenceKeys)
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// GetProfileByID is the internal read: stored fields only, no auth-service
// merge.
func (s *UserService) GetProfileByID(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &profile, nil
}

func (s *UserService) getOrCreate(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{
			UserID:      userID,
			Address:     models.JSONB{},
			Preferences: models.DefaultPreferences(),
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		return &profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &profile, nil
}

func mergeKeys(dst models.JSONB, src map[string]interface{}, keys []string) {
	for _, key := range keys {
		if value, ok := src[key]; ok {
			dst[key] = value
		}
	}
}
