package application

import (
	"context"
	"encoding/json"

	"github.com/linskybing/admission-portal/internal/domain/review"
	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// ReviewEntry describes one submission attempt.
type ReviewEntry struct {
	SessionID     string
	AdminEmail    string
	ApplicationID uint
	Action        review.Action
	Decision      string
	Notes         string
	Outcome       review.Outcome
	Message       string
	Details       map[string]any
}

// ReviewRecorder receives an entry after every submission attempt.
type ReviewRecorder interface {
	Record(ctx context.Context, entry ReviewEntry)
}

type ReviewService struct {
	Repos *repository.Repos
	log   zerolog.Logger
}

func NewReviewService(repos *repository.Repos) *ReviewService {
	return &ReviewService{
		Repos: repos,
		log:   logger.With("review"),
	}
}

// Record stores the entry. A storage failure is logged and never reaches
// the admin: the backend call already happened.
func (s *ReviewService) Record(_ context.Context, entry ReviewEntry) {
	row := &review.ReviewLog{
		SessionID:     entry.SessionID,
		AdminEmail:    entry.AdminEmail,
		ApplicationID: entry.ApplicationID,
		Action:        entry.Action,
		Decision:      entry.Decision,
		Notes:         entry.Notes,
		Outcome:       entry.Outcome,
		Message:       entry.Message,
	}
	if len(entry.Details) > 0 {
		if details, err := json.Marshal(entry.Details); err == nil {
			row.Details = datatypes.JSON(details)
		}
	}
	if err := s.Repos.Review.CreateReviewLog(row); err != nil {
		s.log.Error().Err(err).Uint("application_id", entry.ApplicationID).Msg("Failed to store review log")
	}
}

func (s *ReviewService) QueryReviewLogs(params repository.ReviewQueryParams) ([]review.ReviewLog, error) {
	return s.Repos.Review.GetReviewLogs(params)
}

func (s *ReviewService) CleanupOldLogs(days int) (int64, error) {
	return s.Repos.Review.DeleteOldReviewLogs(days)
}
