// Package store implements one owner-scoped record store shared by every CRM
// entity. A Store is parameterised by a Config naming the table and the
// columns used for ordering, ownership and inline status edits.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrNoStatusField = errors.New("store has no status field")
)

type Config struct {
	Table       string
	OrderField  string
	OwnerField  string
	StatusField string
}

// Record is satisfied by pointers to row types the store can own.
type Record[T any] interface {
	*T
	RecordID() uuid.UUID
	SetOwner(owner uuid.UUID)
}

type Store[T any, PT Record[T]] struct {
	db  *gorm.DB
	cfg Config
}

func New[T any, PT Record[T]](db *gorm.DB, cfg Config) *Store[T, PT] {
	if cfg.OrderField == "" {
		cfg.OrderField = "created_at"
	}
	if cfg.OwnerField == "" {
		cfg.OwnerField = "user_id"
	}
	return &Store[T, PT]{db: db, cfg: cfg}
}

type (
	LeadStore          = Store[models.Lead, *models.Lead]
	ProjectStore       = Store[models.Project, *models.Project]
	SupportClientStore = Store[models.SupportClient, *models.SupportClient]
)

func NewLeadStore(db *gorm.DB) *LeadStore {
	return New[models.Lead](db, Config{Table: "leads", StatusField: "call_status"})
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return New[models.Project](db, Config{Table: "projects", StatusField: "status"})
}

func NewSupportClientStore(db *gorm.DB) *SupportClientStore {
	return New[models.SupportClient](db, Config{Table: "support_clients", StatusField: "support_plan"})
}

func (s *Store[T, PT]) Table() string { return s.cfg.Table }

func (s *Store[T, PT]) scoped(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.cfg.Table).Scopes(ForOwner(s.cfg.OwnerField, ownerID))
}

// List returns every row of the owner, newest first.
func (s *Store[T, PT]) List(ctx context.Context, ownerID uuid.UUID) ([]T, error) {
	rows := make([]T, 0)
	err := s.scoped(ctx, ownerID).Order(s.cfg.OrderField + " DESC").Find(&rows).Error
	metrics.ObserveStoreOp(s.cfg.Table, "list", err)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.cfg.Table, err)
	}
	return rows, nil
}

func (s *Store[T, PT]) Get(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	var row T
	err := s.scoped(ctx, ownerID).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ObserveStoreOp(s.cfg.Table, "get", nil)
		return nil, ErrNotFound
	}
	metrics.ObserveStoreOp(s.cfg.Table, "get", err)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.cfg.Table, err)
	}
	return &row, nil
}

// Create inserts rec owned by ownerID. Field validation is the caller's job.
func (s *Store[T, PT]) Create(ctx context.Context, ownerID uuid.UUID, rec *T) error {
	PT(rec).SetOwner(ownerID)
	err := s.db.WithContext(ctx).Table(s.cfg.Table).Create(rec).Error
	metrics.ObserveStoreOp(s.cfg.Table, "create", err)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.cfg.Table, err)
	}
	return nil
}

// Update overwrites the given columns and refreshes updated_at.
func (s *Store[T, PT]) Update(ctx context.Context, ownerID, id uuid.UUID, fields map[string]interface{}) (*T, error) {
	values := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		if k == "id" || k == s.cfg.OwnerField || k == "created_at" {
			continue
		}
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()

	result := s.scoped(ctx, ownerID).Where("id = ?", id).UpdateColumns(values)
	metrics.ObserveStoreOp(s.cfg.Table, "update", result.Error)
	if result.Error != nil {
		return nil, fmt.Errorf("update %s: %w", s.cfg.Table, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, ownerID, id)
}

// UpdateStatus changes the status column and nothing else.
func (s *Store[T, PT]) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status string) (*T, error) {
	if s.cfg.StatusField == "" {
		return nil, ErrNoStatusField
	}
	result := s.scoped(ctx, ownerID).Where("id = ?", id).UpdateColumn(s.cfg.StatusField, status)
	metrics.ObserveStoreOp(s.cfg.Table, "update_status", result.Error)
	if result.Error != nil {
		return nil, fmt.Errorf("update %s status: %w", s.cfg.Table, result.Error)
	}
	if result.RowsAffected == 0 {
		// Postgres reports matched rows, so zero means no such row.
		return nil, ErrNotFound
	}
	return s.Get(ctx, ownerID, id)
}

// Delete removes a row. Deleting a missing id is not an error.
func (s *Store[T, PT]) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	err := s.scoped(ctx, ownerID).Where("id = ?", id).Delete(new(T)).Error
	metrics.ObserveStoreOp(s.cfg.Table, "delete", err)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.cfg.Table, err)
	}
	return nil
}
