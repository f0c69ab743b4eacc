package repository

import (
	"time"

	"github.com/linskybing/admission-portal/internal/domain/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepo interface {
	SaveSession(s *auth.AdminSession) error
	GetSession(id string) (auth.AdminSession, error)
	DeleteSession(id string) error
	DeleteExpiredSessions(before time.Time) (int64, error)
	WithTx(tx *gorm.DB) SessionRepo
}

type DBSessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *DBSessionRepo {
	return &DBSessionRepo{
		db: db,
	}
}

// SaveSession inserts s or replaces the row with the same id.
func (r *DBSessionRepo) SaveSession(s *auth.AdminSession) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sealed_token", "admin", "expires_at", "updated_at"}),
	}).Create(s).Error
}

func (r *DBSessionRepo) GetSession(id string) (auth.AdminSession, error) {
	var s auth.AdminSession
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		return s, err
	}
	return s, nil
}

func (r *DBSessionRepo) DeleteSession(id string) error {
	return r.db.Where("id = ?", id).Delete(&auth.AdminSession{}).Error
}

func (r *DBSessionRepo) DeleteExpiredSessions(before time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", before).Delete(&auth.AdminSession{})
	return res.RowsAffected, res.Error
}

func (r *DBSessionRepo) WithTx(tx *gorm.DB) SessionRepo {
	if tx == nil {
		return r
	}
	return &DBSessionRepo{
		db: tx,
	}
}
