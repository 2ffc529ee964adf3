package store

import (
	"context"
	"encoding/json"
	"sync"

	"museovini/internal/models"
)

// MemoryCredentialStore keeps credentials for the lifetime of the process.
// It is the fallback when no persistent storage is available, so a session
// still works within one run.
type MemoryCredentialStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{values: make(map[string]string)}
}

func (s *MemoryCredentialStore) get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *MemoryCredentialStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryCredentialStore) del(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
}

func (s *MemoryCredentialStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(keyAccessToken), nil
}

func (s *MemoryCredentialStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(keyRefreshToken), nil
}

func (s *MemoryCredentialStore) SetTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keyAccessToken] = access
	s.values[keyRefreshToken] = refresh
	return nil
}

func (s *MemoryCredentialStore) ClearTokens(ctx context.Context) error {
	s.del(keyAccessToken, keyRefreshToken)
	return nil
}

func (s *MemoryCredentialStore) User(ctx context.Context) (*models.User, error) {
	raw := s.get(keyUserSnapshot)
	if raw == "" {
		return nil, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// A corrupt snapshot is treated as absent, same as the original
		// localStorage parse failure path.
		return nil, nil
	}
	return &user, nil
}

func (s *MemoryCredentialStore) SetUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.ClearUser(ctx)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.set(keyUserSnapshot, string(data))
	return nil
}

func (s *MemoryCredentialStore) ClearUser(ctx context.Context) error {
	s.del(keyUserSnapshot)
	return nil
}
