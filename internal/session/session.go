// Package session holds the backend credential of each logged-in admin.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/admission"
)

var (
	ErrNoCredential = errors.New("no credential stored for session")
	ErrExpired      = errors.New("credential expired")
)

// Credential is the bearer token issued by the backend at login together
// with the profile of the admin that owns it.
type Credential struct {
	Token     string                 `json:"token"`
	Admin     admission.AdminProfile `json:"admin"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Expired reports whether the credential's lifetime has ended at now.
// A zero ExpiresAt never expires.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Store persists credentials by session id. Load returns ErrNoCredential
// for an unknown or already expired id.
type Store interface {
	Save(ctx context.Context, id string, cred Credential) error
	Load(ctx context.Context, id string) (Credential, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
