package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SupportPlanBasic    = "basic"
	SupportPlanStandard = "standard"
	SupportPlanPremium  = "premium"
)

var SupportPlans = []string{SupportPlanBasic, SupportPlanStandard, SupportPlanPremium}

// SupportClient is a client in a post-delivery maintenance relationship.
type SupportClient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientName  string    `gorm:"size:255;not null" json:"client_name"`
	Website     string    `gorm:"type:text" json:"website"`
	SupportPlan string    `gorm:"size:20" json:"support_plan"`
	StartDate   string    `gorm:"size:10" json:"start_date"`
	RenewalDate string    `gorm:"size:10" json:"renewal_date"`
	Feedback    string    `gorm:"type:text" json:"feedback"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SupportClient) TableName() string { return "support_clients" }

func (s *SupportClient) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *SupportClient) RecordID() uuid.UUID     { return s.ID }
func (s *SupportClient) SetOwner(owner uuid.UUID) { s.UserID = owner }
