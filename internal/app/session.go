package app

import (
	"context"

	"assessment-client/internal/domain"
)

// CredentialStore keeps the session of one profile (in memory, on disk, in Redis).
// Load returns domain.ErrNoSession when nothing is stored.
type CredentialStore interface {
	Save(ctx context.Context, s domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
	Token(ctx context.Context) (string, error)
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, regno, password string) (domain.Session, error)
}

// SessionService logs a user in and out of a credential store.
type SessionService struct {
	auth  Authenticator
	store CredentialStore
}

func NewSessionService(auth Authenticator, store CredentialStore) *SessionService {
	return &SessionService{auth: auth, store: store}
}

// Login authenticates and stores the session. A failed login keeps any previous session.
func (s *SessionService) Login(ctx context.Context, regno, password string) (domain.Session, error) {
	sess, err := s.auth.Login(ctx, regno, password)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *SessionService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Current returns the stored session.
func (s *SessionService) Current(ctx context.Context) (domain.Session, error) {
	return s.store.Load(ctx)
}
