package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/admission-portal/internal/api/middleware"
	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/internal/session"
	"github.com/linskybing/admission-portal/pkg/backend"
)

type LoginResult struct {
	Token     string
	SessionID string
	Admin     admission.AdminProfile
	ExpiresAt time.Time
}

// AuthService exchanges admin credentials for a backend token, keeps it in
// the session store and issues the dashboard token pointing at it.
type AuthService struct {
	api        backend.API
	store      session.Store
	workspaces *Workspaces
	hub        *notify.Hub
	ttl        time.Duration
	now        func() time.Time
}

func NewAuthService(api backend.API, store session.Store, workspaces *Workspaces, hub *notify.Hub, ttl time.Duration) *AuthService {
	return &AuthService{
		api:        api,
		store:      store,
		workspaces: workspaces,
		hub:        hub,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := s.api.Authenticate(ctx, email, password)
	if err != nil {
		if backend.IsAuth(err) {
			return LoginResult{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return LoginResult{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	// The session cannot outlive the backend token.
	if exp, ok := session.TokenExpiry(res.Token); ok && exp.Before(expiresAt) {
		expiresAt = exp
	}
	if !expiresAt.After(now) {
		return LoginResult{}, fmt.Errorf("%w: backend issued an expired token", ErrInvalidCredentials)
	}

	sessionID := uuid.NewString()
	cred := session.Credential{Token: res.Token, Admin: res.Admin, ExpiresAt: expiresAt}
	if err := s.store.Save(ctx, sessionID, cred); err != nil {
		return LoginResult{}, err
	}

	token, err := middleware.GenerateToken(sessionID, res.Admin, expiresAt.Sub(now))
	if err != nil {
		_ = s.store.Delete(ctx, sessionID)
		return LoginResult{}, err
	}

	return LoginResult{Token: token, SessionID: sessionID, Admin: res.Admin, ExpiresAt: expiresAt}, nil
}

// Logout clears the stored credential and everything held for the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.store.Delete(ctx, sessionID)
	s.workspaces.Drop(sessionID)
	if s.hub != nil {
		s.hub.Forget(sessionID)
	}
	return err
}

// Status returns the stored credential if the backend token is still usable.
func (s *AuthService) Status(ctx context.Context, sessionID string) (session.Credential, error) {
	acc := session.NewAccessor(s.store, sessionID)
	if _, err := acc.Token(ctx); err != nil {
		return session.Credential{}, err
	}
	return acc.Get(ctx)
}

// IsSessionGone reports whether err means the admin has to log in again.
func IsSessionGone(err error) bool {
	return session.IsMissing(err) || (backend.IsAuth(err) && !errors.Is(err, ErrInvalidCredentials))
}
