package auth

import (
	"time"

	"gorm.io/datatypes"
)

// AdminSession is the persisted form of a logged-in admin's backend
// credential. SealedToken never holds the bearer token in clear.
type AdminSession struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	SealedToken []byte         `gorm:"not null" json:"-"`
	Admin       datatypes.JSON `json:"admin"`
	ExpiresAt   time.Time      `gorm:"index;not null" json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (AdminSession) TableName() string {
	return "admin_sessions"
}
