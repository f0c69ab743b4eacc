package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "admission:session:"

// RedisStore keeps sealed credentials in redis. Keys expire with the
// credential so DeleteExpired has nothing to do.
type RedisStore struct {
	client *redis.Client
	sealer *Sealer
}

type redisRecord struct {
	Sealed    []byte                 `json:"sealed"`
	Admin     admission.AdminProfile `json:"admin"`
	ExpiresAt time.Time              `json:"expires_at"`
}

func NewRedisStore(client *redis.Client, sealer *Sealer) *RedisStore {
	return &RedisStore{client: client, sealer: sealer}
}

func (s *RedisStore) Save(ctx context.Context, id string, cred Credential) error {
	var ttl time.Duration
	if !cred.ExpiresAt.IsZero() {
		ttl = time.Until(cred.ExpiresAt)
		if ttl <= 0 {
			return s.Delete(ctx, id)
		}
	}
	sealed, err := s.sealer.Seal(cred.Token)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(redisRecord{Sealed: sealed, Admin: cred.Admin, ExpiresAt: cred.ExpiresAt})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (Credential, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Credential{}, ErrNoCredential
	}
	if err != nil {
		return Credential{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	var rec redisRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Credential{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	token, err := s.sealer.Open(rec.Sealed)
	if err != nil {
		return Credential{}, ErrNoCredential
	}
	return Credential{Token: token, Admin: rec.Admin, ExpiresAt: rec.ExpiresAt}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}

func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
