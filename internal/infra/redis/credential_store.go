package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assessment-client/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CredentialStore keeps a profile's session in Redis with a TTL, so the
// session ends on its own even if the user never logs out.
type CredentialStore struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
}

func NewCredentialStore(client *redis.Client, profile string, ttl time.Duration) *CredentialStore {
	return &CredentialStore{client: client, profile: profile, ttl: ttl}
}

func (s *CredentialStore) Save(ctx context.Context, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (domain.Session, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if err == redis.Nil {
		return domain.Session{}, domain.ErrNoSession
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key()).Err()
}

func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (s *CredentialStore) key() string {
	return "assess:session:" + s.profile
}
