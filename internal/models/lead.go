package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Call statuses offered by the lead status dropdown.
const (
	CallStatusNotCalled     = "not_called"
	CallStatusCalled        = "called"
	CallStatusCallback      = "callback"
	CallStatusNotInterested = "not_interested"
	CallStatusInterested    = "interested"
)

var CallStatuses = []string{
	CallStatusNotCalled,
	CallStatusCalled,
	CallStatusCallback,
	CallStatusNotInterested,
	CallStatusInterested,
}

// Lead is a prospective client not yet committed to a paid engagement.
type Lead struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Phone      string    `gorm:"size:50" json:"phone"`
	Website    string    `gorm:"type:text" json:"website"`
	Address    string    `gorm:"type:text" json:"address"`
	CallStatus string    `gorm:"size:30" json:"call_status"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *Lead) RecordID() uuid.UUID     { return l.ID }
func (l *Lead) SetOwner(owner uuid.UUID) { l.UserID = owner }
