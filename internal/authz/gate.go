// Package authz decides access to the administrative surface.
package authz

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/session"
	"gorm.io/gorm"
)

type Gate struct {
	db *gorm.DB
}

func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

// IsSuperAdmin reads the caller's profile role. It queries on every call and
// never caches the decision. Lookup failures deny access.
func (g *Gate) IsSuperAdmin(ctx context.Context, sess *session.Session) bool {
	if !sess.Present() {
		return false
	}
	var profile models.Profile
	err := g.db.WithContext(ctx).Select("role").First(&profile, "id = ?", sess.UserID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("role lookup failed", "user_id", sess.UserID.String(), "error", err)
		}
		return false
	}
	return profile.Role == models.RoleSuperAdmin
}
