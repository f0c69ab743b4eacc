package application

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/internal/session"
	"github.com/linskybing/admission-portal/internal/storage"
	"github.com/linskybing/admission-portal/pkg/backend"
	"github.com/linskybing/admission-portal/pkg/backend/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkspaces(t *testing.T) (*Workspaces, *mock.MockAPI, *notify.Hub) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })
	api := mock.NewMockAPI(ctrl)
	hub := notify.NewHub(10)

	ws := NewWorkspaces(WorkspaceConfig{
		Store:                session.NewMemoryStore(),
		NewAPI:               func(backend.CredentialSource) backend.API { return api },
		Hub:                  hub,
		Recorder:             &fakeReviews{},
		ApplicationsPageSize: 50,
		PaymentQueuePageSize: 100,
		Timeout:              time.Second,
	})
	return ws, api, hub
}

func TestWorkspaces_GetIsLazyAndStable(t *testing.T) {
	ws, _, _ := setupWorkspaces(t)
	admin := admission.AdminProfile{ID: 1, Email: "a@b.test"}

	a := ws.Get("s1", admin)
	assert.Same(t, a, ws.Get("s1", admin))
	assert.NotSame(t, a, ws.Get("s2", admin))
	assert.Equal(t, 2, ws.Len())

	ws.Drop("s1")
	assert.Equal(t, 1, ws.Len())
	assert.NotSame(t, a, ws.Get("s1", admin))
}

func TestWorkspace_ReviewRefreshesVerificationList(t *testing.T) {
	ws, api, hub := setupWorkspaces(t)
	w := ws.Get("s1", admission.AdminProfile{Email: "a@b.test"})

	submitted := admission.Application{ID: 7, ApplicantID: 99, Status: admission.StatusSubmitted, GuardianName: "Ibu Sari"}
	verified := submitted
	verified.Status = admission.StatusVerified

	gomock.InOrder(
		api.EXPECT().ListApplications(gomock.Any(), 50, 0).Return([]admission.Application{submitted}, nil),
		api.EXPECT().SetApplicationStatus(gomock.Any(), uint(7), admission.StatusVerified, "ok").Return(nil),
		api.EXPECT().ListApplications(gomock.Any(), 50, 0).Return([]admission.Application{verified}, nil),
	)
	api.EXPECT().ListApplicants(gomock.Any()).Return(nil, nil).Times(2)

	_, err := w.Verifications.Refresh(context.Background())
	require.NoError(t, err)

	modal, err := w.OpenModal(ModalReview, 7)
	require.NoError(t, err)
	require.NoError(t, modal.SetNotes("ok"))
	require.NoError(t, modal.Review(context.Background(), admission.StatusVerified))

	row, ok := w.Verifications.Find(7)
	require.True(t, ok)
	assert.Equal(t, "Verified", row.Status.Label)

	recent := hub.Recent("s1")
	require.NotEmpty(t, recent)
	assert.Equal(t, "Status updated", recent[len(recent)-1].Title)
}

func TestWorkspace_ReviewDuringRunningFetchShowsNewStatus(t *testing.T) {
	ws, api, _ := setupWorkspaces(t)
	w := ws.Get("s1", admission.AdminProfile{Email: "a@b.test"})

	submitted := admission.Application{ID: 7, Status: admission.StatusSubmitted}
	verified := submitted
	verified.Status = admission.StatusVerified

	inFetch := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		api.EXPECT().ListApplications(gomock.Any(), 50, 0).Return([]admission.Application{submitted}, nil),
		api.EXPECT().ListApplications(gomock.Any(), 50, 0).DoAndReturn(func(context.Context, int, int) ([]admission.Application, error) {
			close(inFetch)
			<-release
			return []admission.Application{submitted}, nil
		}),
		api.EXPECT().SetApplicationStatus(gomock.Any(), uint(7), admission.StatusVerified, "").Return(nil),
		api.EXPECT().ListApplications(gomock.Any(), 50, 0).Return([]admission.Application{verified}, nil),
	)
	api.EXPECT().ListApplicants(gomock.Any()).Return(nil, nil).Times(3)

	_, err := w.Verifications.Refresh(context.Background())
	require.NoError(t, err)
	modal, err := w.OpenModal(ModalReview, 7)
	require.NoError(t, err)

	go func() { _, _ = w.Verifications.Refresh(context.Background()) }()
	<-inFetch
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	require.NoError(t, modal.Review(context.Background(), admission.StatusVerified))

	row, ok := w.Verifications.Find(7)
	require.True(t, ok)
	assert.Equal(t, admission.StatusVerified, row.Application.Status)
	assert.Equal(t, "Verified", row.Status.Label)
}

func TestWorkspaces_PruneExpiredDropsGoneSessions(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	hub := notify.NewHub(10)
	ws := NewWorkspaces(WorkspaceConfig{
		Store:  store,
		NewAPI: func(backend.CredentialSource) backend.API { return nil },
		Hub:    hub,
	})

	require.NoError(t, store.Save(ctx, "live", session.Credential{Token: "a", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, "stale", session.Credential{Token: "b", ExpiresAt: time.Now().Add(-time.Minute)}))
	ws.Get("live", admission.AdminProfile{})
	ws.Get("stale", admission.AdminProfile{})
	ws.Get("purged", admission.AdminProfile{})
	hub.Publish("stale", notify.LevelInfo, "t", "d")
	hub.Publish("purged", notify.LevelInfo, "t", "d")
	hub.Publish("live", notify.LevelInfo, "t", "d")

	assert.Equal(t, 2, ws.PruneExpired(ctx))
	assert.Equal(t, 1, ws.Len())
	assert.Empty(t, hub.Recent("stale"))
	assert.Empty(t, hub.Recent("purged"))
	assert.Len(t, hub.Recent("live"), 1)
	assert.Zero(t, ws.PruneExpired(ctx))
}

func TestWorkspace_PaymentRejectKeepsLifecycleStatus(t *testing.T) {
	ws, api, _ := setupWorkspaces(t)
	w := ws.Get("s1", admission.AdminProfile{})

	app := admission.Application{ID: 8, Status: admission.StatusVerified, PaymentProofURL: "x.jpg"}
	after := app
	after.PaymentVerificationStatus = admission.PaymentRejected

	gomock.InOrder(
		api.EXPECT().ListApplications(gomock.Any(), 100, 0).Return([]admission.Application{app}, nil),
		api.EXPECT().SetPaymentVerification(gomock.Any(), uint(8), false).Return(nil),
		api.EXPECT().ListApplications(gomock.Any(), 100, 0).Return([]admission.Application{after}, nil),
	)

	_, err := w.Payments.Refresh(context.Background())
	require.NoError(t, err)
	modal, err := w.OpenModal(ModalPayment, 8)
	require.NoError(t, err)
	require.NoError(t, modal.VerifyPayment(context.Background(), false))

	row, ok := w.Payments.Find(8)
	require.True(t, ok)
	assert.Equal(t, admission.StatusVerified, row.Application.Status)
	assert.Equal(t, admission.PaymentRejected, row.PaymentVerificationStatus)
}

func TestWorkspace_OpenModalUnknownApplication(t *testing.T) {
	ws, _, _ := setupWorkspaces(t)
	w := ws.Get("s1", admission.AdminProfile{})

	_, err := w.OpenModal(ModalReview, 42)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestWorkspace_CloseModalForgetsIt(t *testing.T) {
	ws, api, _ := setupWorkspaces(t)
	w := ws.Get("s1", admission.AdminProfile{})
	api.EXPECT().ListApplications(gomock.Any(), 50, 0).Return([]admission.Application{{ID: 1, Status: admission.StatusSubmitted}}, nil)
	api.EXPECT().ListApplicants(gomock.Any()).Return(nil, nil)
	_, err := w.Verifications.Refresh(context.Background())
	require.NoError(t, err)

	_, err = w.OpenModal(ModalReview, 1)
	require.NoError(t, err)
	_, ok := w.Modal(ModalReview, 1)
	assert.True(t, ok)

	require.NoError(t, w.CloseModal(ModalReview, 1))
	_, ok = w.Modal(ModalReview, 1)
	assert.False(t, ok)
	assert.NoError(t, w.CloseModal(ModalReview, 1))
}

func TestBuildDetail(t *testing.T) {
	row := Row{Application: admission.Application{
		ID:              7,
		Status:          admission.StatusSubmitted,
		FamilyCardURL:   "uploads/kk.pdf",
		PhotoURL:        "https://cdn.test/photo.jpg",
		PaymentProofURL: "uploads/proof.jpg",
		PaymentStatus:   true,
	}}

	d := BuildDetail(context.Background(), row, storage.PassthroughLinker{BaseURL: "http://backend.test"})
	require.Len(t, d.Documents, len(admission.DocumentSlots))
	assert.True(t, d.Reviewable)
	assert.Equal(t, "Paid", d.PaymentStatus.Label)
	assert.Equal(t, "Awaiting verification", d.PaymentVerification.Label)

	byKind := map[admission.DocumentKind]DocumentLink{}
	for _, doc := range d.Documents {
		byKind[doc.Kind] = doc
	}
	assert.Equal(t, "http://backend.test/uploads/kk.pdf", byKind[admission.DocFamilyCard].URL)
	assert.Equal(t, "https://cdn.test/photo.jpg", byKind[admission.DocPhoto].URL)
	assert.False(t, byKind[admission.DocSelfie].Present)
	assert.Empty(t, byKind[admission.DocSelfie].URL)
	assert.Equal(t, "http://backend.test/uploads/proof.jpg", d.PaymentProof.URL)
}
