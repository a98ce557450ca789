package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

var ProjectStatuses = []string{
	ProjectStatusPlanning,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
}

// Project is a paid engagement. Payment and delivery dates are calendar
// dates formatted as YYYY-MM-DD.
type Project struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientName       string    `gorm:"size:255;not null" json:"client_name"`
	Contact          string    `gorm:"size:255" json:"contact"`
	Requirements     string    `gorm:"type:text" json:"requirements"`
	FeaturesRequired string    `gorm:"type:text" json:"features_required"`
	FirstPaymentDate string    `gorm:"size:10" json:"first_payment_date"`
	FinalPaymentDate string    `gorm:"size:10" json:"final_payment_date"`
	DeliveryDate     string    `gorm:"size:10" json:"delivery_date"`
	Status           string    `gorm:"size:30" json:"status"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Project) RecordID() uuid.UUID     { return p.ID }
func (p *Project) SetOwner(owner uuid.UUID) { p.UserID = owner }
