package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Accessor is the credential handle of one dashboard session. It is passed
// explicitly to the backend client as its CredentialSource.
type Accessor struct {
	store Store
	id    string
	now   func() time.Time
}

func NewAccessor(store Store, sessionID string) *Accessor {
	return &Accessor{store: store, id: sessionID, now: time.Now}
}

func (a *Accessor) ID() string {
	return a.id
}

func (a *Accessor) Get(ctx context.Context) (Credential, error) {
	return a.store.Load(ctx, a.id)
}

func (a *Accessor) Set(ctx context.Context, cred Credential) error {
	return a.store.Save(ctx, a.id, cred)
}

func (a *Accessor) Clear(ctx context.Context) error {
	return a.store.Delete(ctx, a.id)
}

// Token returns the bearer token for backend calls. It fails with
// ErrNoCredential when nothing is stored and ErrExpired when either the
// stored lifetime or the token's own exp claim has passed.
func (a *Accessor) Token(ctx context.Context) (string, error) {
	cred, err := a.store.Load(ctx, a.id)
	if err != nil {
		return "", err
	}
	now := a.now()
	if cred.Expired(now) || tokenExpired(cred.Token, now) {
		return "", ErrExpired
	}
	if cred.Token == "" {
		return "", ErrNoCredential
	}
	return cred.Token, nil
}

// TokenExpiry reads the exp claim of a JWT without verifying it. ok is
// false for opaque tokens and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	t, err := claims.GetExpirationTime()
	if err != nil || t == nil {
		return time.Time{}, false
	}
	return t.Time, true
}

func tokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !now.Before(exp)
}

// IsMissing reports whether err means the admin must log in again.
func IsMissing(err error) bool {
	return errors.Is(err, ErrNoCredential) || errors.Is(err, ErrExpired)
}
