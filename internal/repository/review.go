package repository

import (
	"time"

	"github.com/linskybing/admission-portal/internal/domain/review"
	"gorm.io/gorm"
)

type ReviewQueryParams struct {
	ApplicationID *uint
	SessionID     *string
	Action        *review.Action
	StartTime     *time.Time
	EndTime       *time.Time
	Limit         int
	Offset        int
}

type ReviewRepo interface {
	GetReviewLogs(params ReviewQueryParams) ([]review.ReviewLog, error)
	CreateReviewLog(log *review.ReviewLog) error
	DeleteOldReviewLogs(retentionDays int) (int64, error)
	WithTx(tx *gorm.DB) ReviewRepo
}

type DBReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *DBReviewRepo {
	return &DBReviewRepo{
		db: db,
	}
}

func (r *DBReviewRepo) DeleteOldReviewLogs(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := r.db.Where("created_at < ?", cutoff).Delete(&review.ReviewLog{})
	return res.RowsAffected, res.Error
}

func (r *DBReviewRepo) GetReviewLogs(params ReviewQueryParams) ([]review.ReviewLog, error) {
	var logs []review.ReviewLog
	query := r.db.Model(&review.ReviewLog{})

	if params.ApplicationID != nil {
		query = query.Where("application_id = ?", *params.ApplicationID)
	}
	if params.SessionID != nil {
		query = query.Where("session_id = ?", *params.SessionID)
	}
	if params.Action != nil {
		query = query.Where("action = ?", *params.Action)
	}
	if params.StartTime != nil {
		query = query.Where("created_at >= ?", *params.StartTime)
	}
	if params.EndTime != nil {
		query = query.Where("created_at <= ?", *params.EndTime)
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	err := query.Find(&logs).Error
	return logs, err
}

func (r *DBReviewRepo) CreateReviewLog(log *review.ReviewLog) error {
	return r.db.Create(log).Error
}

func (r *DBReviewRepo) WithTx(tx *gorm.DB) ReviewRepo {
	if tx == nil {
		return r
	}
	return &DBReviewRepo{
		db: tx,
	}
}
