package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/linskybing/admission-portal/internal/domain/review"
	"github.com/linskybing/admission-portal/internal/repository"
	"github.com/linskybing/admission-portal/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_RecordAndQuery(t *testing.T) {
	svc := NewReviewService(repository.NewRepositories(testutils.NewSQLiteDB(t)))

	svc.Record(context.Background(), ReviewEntry{
		SessionID:     "s1",
		AdminEmail:    "rina@school.test",
		ApplicationID: 7,
		Action:        review.ActionReview,
		Decision:      "REJECTED",
		Notes:         "check NIK",
		Outcome:       review.OutcomeFailure,
		Message:       "db down",
		Details:       map[string]any{"error_kind": "server"},
	})
	svc.Record(context.Background(), ReviewEntry{
		SessionID:     "s1",
		ApplicationID: 8,
		Action:        review.ActionPayment,
		Decision:      "approved",
		Outcome:       review.OutcomeSuccess,
	})

	appID := uint(7)
	logs, err := svc.QueryReviewLogs(repository.ReviewQueryParams{ApplicationID: &appID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "check NIK", logs[0].Notes)
	assert.Equal(t, review.OutcomeFailure, logs[0].Outcome)

	var details map[string]string
	require.NoError(t, json.Unmarshal(logs[0].Details, &details))
	assert.Equal(t, "server", details["error_kind"])

	all, err := svc.QueryReviewLogs(repository.ReviewQueryParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	removed, err := svc.CleanupOldLogs(30)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
