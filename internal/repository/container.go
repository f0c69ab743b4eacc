package repository

import (
	"github.com/linskybing/admission-portal/internal/domain/auth"
	"github.com/linskybing/admission-portal/internal/domain/review"
	"gorm.io/gorm"
)

type Repos struct {
	Session SessionRepo
	Review  ReviewRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Session: NewSessionRepo(db),
		Review:  NewReviewRepo(db),
		db:      db,
	}
}

// Migrate creates or updates the tables owned by the portal.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&auth.AdminSession{}, &review.ReviewLog{})
}

func (r *Repos) Begin() *gorm.DB {
	return r.db.Begin()
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Session: r.Session.WithTx(tx),
		Review:  r.Review.WithTx(tx),
		db:      tx,
	}
}

func (r *Repos) ExecTx(fn func(*Repos) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepos := r.WithTx(tx)
		return fn(txRepos)
	})
}
