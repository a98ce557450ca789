package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRole     = errors.New("role must be one of user, admin, super_admin")
	ErrLastSuperAdmin  = errors.New("cannot demote the last super_admin")
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update edits the display fields of the caller's own profile. The role is
// not editable here.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0)
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}

// SetRole changes a profile's role. Demoting the only remaining super_admin
// is refused so the admin panel always has someone who can open it.
func (s *ProfileService) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.Profile, error) {
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Profile
		if err := tx.Select("id", "role").First(&current, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		if current.Role == models.RoleSuperAdmin && role != models.RoleSuperAdmin {
			var admins int64
			if err := tx.Model(&models.Profile{}).Where("role = ?", models.RoleSuperAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastSuperAdmin
			}
		}
		return tx.Model(&models.Profile{}).Where("id = ?", id).Update("role", role).Error
	})
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) || errors.Is(err, ErrLastSuperAdmin) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return s.Get(ctx, id)
}

// SetRoleByEmail is used by the operator CLI to bootstrap administrators.
func (s *ProfileService) SetRoleByEmail(ctx context.Context, email, role string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.SetRole(ctx, profile.ID, role)
}
