package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"assessment-client/internal/domain"
	"gopkg.in/yaml.v3"
)

// CredentialStore persists sessions in a YAML file keyed by profile name,
// so one file can hold an admin and a student login side by side.
type CredentialStore struct {
	path    string
	profile string
	mu      sync.Mutex
}

func NewCredentialStore(path, profile string) *CredentialStore {
	return &CredentialStore{path: path, profile: profile}
}

func (s *CredentialStore) Save(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return err
	}
	profiles[s.profile] = sess
	return s.write(profiles)
}

func (s *CredentialStore) Load(_ context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return domain.Session{}, err
	}
	sess, ok := profiles[s.profile]
	if !ok || sess.Token == "" {
		return domain.Session{}, domain.ErrNoSession
	}
	return sess, nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := profiles[s.profile]; !ok {
		return nil
	}
	delete(profiles, s.profile)
	return s.write(profiles)
}

func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (s *CredentialStore) read() (map[string]domain.Session, error) {
	profiles := make(map[string]domain.Session)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return profiles, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if profiles == nil {
		profiles = make(map[string]domain.Session)
	}
	return profiles, nil
}

func (s *CredentialStore) write(profiles map[string]domain.Session) error {
	data, err := yaml.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	// tokens are secrets: owner-only
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
