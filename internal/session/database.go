package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/domain/auth"
	"github.com/linskybing/admission-portal/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DBStore persists credentials in the admin_sessions table with the token
// sealed.
type DBStore struct {
	repo   repository.SessionRepo
	sealer *Sealer
	now    func() time.Time
}

func NewDBStore(repo repository.SessionRepo, sealer *Sealer) *DBStore {
	return &DBStore{repo: repo, sealer: sealer, now: time.Now}
}

func (s *DBStore) Save(_ context.Context, id string, cred Credential) error {
	sealed, err := s.sealer.Seal(cred.Token)
	if err != nil {
		return err
	}
	admin, err := json.Marshal(cred.Admin)
	if err != nil {
		return fmt.Errorf("failed to marshal admin profile: %w", err)
	}
	row := &auth.AdminSession{
		ID:          id,
		SealedToken: sealed,
		Admin:       datatypes.JSON(admin),
		ExpiresAt:   cred.ExpiresAt.UTC(),
	}
	if err := s.repo.SaveSession(row); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *DBStore) Load(_ context.Context, id string) (Credential, error) {
	row, err := s.repo.GetSession(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Credential{}, ErrNoCredential
	}
	if err != nil {
		return Credential{}, fmt.Errorf("failed to load session: %w", err)
	}

	cred := Credential{ExpiresAt: row.ExpiresAt}
	if cred.Expired(s.now()) {
		return Credential{}, ErrNoCredential
	}
	if cred.Token, err = s.sealer.Open(row.SealedToken); err != nil {
		// Sealed with another secret, e.g. after SESSION_SECRET rotation.
		return Credential{}, ErrNoCredential
	}
	if len(row.Admin) > 0 {
		var admin admission.AdminProfile
		if err := json.Unmarshal(row.Admin, &admin); err != nil {
			return Credential{}, fmt.Errorf("failed to decode admin profile: %w", err)
		}
		cred.Admin = admin
	}
	return cred, nil
}

func (s *DBStore) Delete(_ context.Context, id string) error {
	return s.repo.DeleteSession(id)
}

func (s *DBStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	n, err := s.repo.DeleteExpiredSessions(now.UTC())
	return int(n), err
}
