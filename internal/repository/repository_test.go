package repository_test

import (
	"testing"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/auth"
	"github.com/linskybing/admission-portal/internal/domain/review"
	"github.com/linskybing/admission-portal/internal/repository"
	"github.com/linskybing/admission-portal/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --------------------- Sessions ---------------------
func TestSessionRepo_SaveReplaces(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLiteDB(t))
	exp := time.Now().Add(time.Hour).UTC()

	require.NoError(t, repos.Session.SaveSession(&auth.AdminSession{
		ID: "s1", SealedToken: []byte("a"), Admin: datatypes.JSON(`{"id":1}`), ExpiresAt: exp,
	}))
	require.NoError(t, repos.Session.SaveSession(&auth.AdminSession{
		ID: "s1", SealedToken: []byte("b"), Admin: datatypes.JSON(`{"id":2}`), ExpiresAt: exp,
	}))

	got, err := repos.Session.GetSession("s1")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got.SealedToken)
	assert.JSONEq(t, `{"id":2}`, string(got.Admin))
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLiteDB(t))
	now := time.Now()

	require.NoError(t, repos.Session.SaveSession(&auth.AdminSession{ID: "old", SealedToken: []byte("x"), ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repos.Session.SaveSession(&auth.AdminSession{ID: "new", SealedToken: []byte("x"), ExpiresAt: now.Add(time.Hour)}))

	n, err := repos.Session.DeleteExpiredSessions(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repos.Session.GetSession("old")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repos.Session.GetSession("new")
	assert.NoError(t, err)
}

func TestSessionRepo_Delete(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLiteDB(t))
	require.NoError(t, repos.Session.SaveSession(&auth.AdminSession{ID: "s1", SealedToken: []byte("x"), ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, repos.Session.DeleteSession("s1"))
	_, err := repos.Session.GetSession("s1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// --------------------- Review logs ---------------------
func TestReviewRepo_FilterAndOrder(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLiteDB(t))
	base := time.Now().Add(-time.Hour)

	logs := []review.ReviewLog{
		{ApplicationID: 7, Action: review.ActionReview, Decision: "REJECTED", Outcome: review.OutcomeFailure, CreatedAt: base},
		{ApplicationID: 7, Action: review.ActionReview, Decision: "REJECTED", Outcome: review.OutcomeSuccess, CreatedAt: base.Add(time.Minute)},
		{ApplicationID: 8, Action: review.ActionPayment, Decision: "approved", Outcome: review.OutcomeSuccess, CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range logs {
		require.NoError(t, repos.Review.CreateReviewLog(&logs[i]))
	}

	appID := uint(7)
	got, err := repos.Review.GetReviewLogs(repository.ReviewQueryParams{ApplicationID: &appID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, review.OutcomeSuccess, got[0].Outcome)
	assert.Equal(t, review.OutcomeFailure, got[1].Outcome)

	action := review.ActionPayment
	got, err = repos.Review.GetReviewLogs(repository.ReviewQueryParams{Action: &action})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(8), got[0].ApplicationID)

	got, err = repos.Review.GetReviewLogs(repository.ReviewQueryParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, review.OutcomeSuccess, got[0].Outcome)
	assert.Equal(t, uint(7), got[0].ApplicationID)
}

func TestReviewRepo_DeleteOld(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLiteDB(t))

	require.NoError(t, repos.Review.CreateReviewLog(&review.ReviewLog{ApplicationID: 1, Action: review.ActionReview, Outcome: review.OutcomeSuccess, CreatedAt: time.Now().AddDate(0, 0, -200)}))
	require.NoError(t, repos.Review.CreateReviewLog(&review.ReviewLog{ApplicationID: 2, Action: review.ActionReview, Outcome: review.OutcomeSuccess, CreatedAt: time.Now()}))

	n, err := repos.Review.DeleteOldReviewLogs(180)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repos.Review.GetReviewLogs(repository.ReviewQueryParams{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ApplicationID)
}

func TestRepos_ExecTxRollsBack(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLiteDB(t))

	err := repos.ExecTx(func(tx *repository.Repos) error {
		if err := tx.Review.CreateReviewLog(&review.ReviewLog{ApplicationID: 1, Action: review.ActionReview, Outcome: review.OutcomeSuccess}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	assert.ErrorIs(t, err, gorm.ErrInvalidData)

	got, err := repos.Review.GetReviewLogs(repository.ReviewQueryParams{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
