package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

var Roles = []string{RoleUser, RoleAdmin, RoleSuperAdmin}

// Profile is the identity record read by the role gate. Its ID equals the
// owning User's ID.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255" json:"email"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url"`
	Role      string    `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
