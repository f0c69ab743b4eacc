package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/linskybing/admission-portal/internal/api/middleware"
	"github.com/linskybing/admission-portal/internal/config"
	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/internal/session"
	"github.com/linskybing/admission-portal/pkg/backend"
	"github.com/linskybing/admission-portal/pkg/backend/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T) (*AuthService, *mock.MockAPI, session.Store, *Workspaces) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	config.JwtSecret = "test-secret"
	middleware.Init()

	api := mock.NewMockAPI(ctrl)
	store := session.NewMemoryStore()
	hub := notify.NewHub(10)
	workspaces := NewWorkspaces(WorkspaceConfig{
		Store:  store,
		NewAPI: func(backend.CredentialSource) backend.API { return api },
		Hub:    hub,
	})
	return NewAuthService(api, store, workspaces, hub, 12*time.Hour), api, store, workspaces
}

func backendJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}).SignedString([]byte("backend"))
	require.NoError(t, err)
	return s
}

func TestLogin_StoresCredentialAndIssuesToken(t *testing.T) {
	svc, api, store, _ := setupAuth(t)
	admin := admission.AdminProfile{ID: 3, FullName: "Bu Rina", Email: "rina@school.test"}
	api.EXPECT().Authenticate(gomock.Any(), "rina@school.test", "pw").Return(&backend.AuthResult{Token: "opaque", Admin: admin}, nil)

	res, err := svc.Login(context.Background(), "rina@school.test", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, admin, res.Admin)

	claims, err := middleware.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.SessionID, claims.SessionID)
	assert.Equal(t, "rina@school.test", claims.AdminEmail)

	cred, err := store.Load(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "opaque", cred.Token)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), cred.ExpiresAt, time.Minute)
}

func TestLogin_SessionCappedByBackendTokenExpiry(t *testing.T) {
	svc, api, store, _ := setupAuth(t)
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	api.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(&backend.AuthResult{Token: backendJWT(t, exp)}, nil)

	res, err := svc.Login(context.Background(), "a@b.test", "pw")
	require.NoError(t, err)
	assert.True(t, exp.Equal(res.ExpiresAt))

	cred, err := store.Load(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.True(t, exp.Equal(cred.ExpiresAt))
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, api, _, _ := setupAuth(t)
	api.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &backend.Error{Kind: backend.ErrUnauthorized, StatusCode: 401, Message: "Wrong password"})

	_, err := svc.Login(context.Background(), "a@b.test", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Wrong password", backend.MessageOf(err, ""))
	assert.False(t, IsSessionGone(err))
}

func TestLogin_BackendDown(t *testing.T) {
	svc, api, _, _ := setupAuth(t)
	api.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, &backend.Error{Kind: backend.ErrNetwork})

	_, err := svc.Login(context.Background(), "a@b.test", "pw")
	assert.ErrorIs(t, err, backend.ErrNetwork)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLogin_ExpiredBackendToken(t *testing.T) {
	svc, api, _, _ := setupAuth(t)
	api.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&backend.AuthResult{Token: backendJWT(t, time.Now().Add(-time.Minute))}, nil)

	_, err := svc.Login(context.Background(), "a@b.test", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutAndStatus(t *testing.T) {
	svc, api, _, workspaces := setupAuth(t)
	api.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(&backend.AuthResult{Token: "opaque"}, nil)

	res, err := svc.Login(context.Background(), "a@b.test", "pw")
	require.NoError(t, err)
	workspaces.Get(res.SessionID, res.Admin)

	cred, err := svc.Status(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "opaque", cred.Token)

	require.NoError(t, svc.Logout(context.Background(), res.SessionID))
	assert.Zero(t, workspaces.Len())

	_, err = svc.Status(context.Background(), res.SessionID)
	assert.True(t, IsSessionGone(err))
}
