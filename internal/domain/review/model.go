package review

import (
	"time"

	"gorm.io/datatypes"
)

type Action string

const (
	ActionReview  Action = "review"
	ActionPayment Action = "payment"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ReviewLog records one submission attempt made from a review or payment
// modal. It is operational history only; list rows are always re-fetched
// from the backend.
type ReviewLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SessionID     string         `gorm:"size:64;index" json:"session_id"`
	AdminEmail    string         `gorm:"size:255" json:"admin_email"`
	ApplicationID uint           `gorm:"index;not null" json:"application_id"`
	Action        Action         `gorm:"size:16;not null" json:"action"`
	Decision      string         `gorm:"size:32" json:"decision"`
	Notes         string         `gorm:"type:text" json:"notes"`
	Outcome       Outcome        `gorm:"size:16;not null" json:"outcome"`
	Message       string         `gorm:"type:text" json:"message,omitempty"`
	Details       datatypes.JSON `json:"details,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (ReviewLog) TableName() string {
	return "review_logs"
}
