package store

import (
	"context"
	"sync/atomic"
	"time"

	"museovini/internal/domain"
	"museovini/internal/models"

	"github.com/rs/zerolog"
)

// FailoverCredentialStore degrades to the fallback store when the primary
// errors, so credential accessors keep working when persistent storage is
// unavailable. The primary is re-probed after a cooldown.
type FailoverCredentialStore struct {
	primary   domain.CredentialStore
	fallback  domain.CredentialStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryInterval = time.Minute

func NewFailoverCredentialStore(primary, fallback domain.CredentialStore, logger *zerolog.Logger) *FailoverCredentialStore {
	return &FailoverCredentialStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverCredentialStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("Primary credential store failed, falling back to memory")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().UnixNano())
}

// primaryUsable reports whether the primary should be tried: either it is
// healthy, or the cooldown since the last failure has elapsed.
func (s *FailoverCredentialStore) primaryUsable() bool {
	if !s.isDown.Load() {
		return true
	}
	last := time.Unix(0, s.lastCheck.Load())
	return time.Since(last) > recoveryInterval
}

func (s *FailoverCredentialStore) AccessToken(ctx context.Context) (string, error) {
	if s.primaryUsable() {
		token, err := s.primary.AccessToken(ctx)
		if err == nil {
			s.isDown.Store(false)
			return token, nil
		}
		s.markDown(err)
	}
	return s.fallback.AccessToken(ctx)
}

func (s *FailoverCredentialStore) RefreshToken(ctx context.Context) (string, error) {
	if s.primaryUsable() {
		token, err := s.primary.RefreshToken(ctx)
		if err == nil {
			s.isDown.Store(false)
			return token, nil
		}
		s.markDown(err)
	}
	return s.fallback.RefreshToken(ctx)
}

func (s *FailoverCredentialStore) SetTokens(ctx context.Context, access, refresh string) error {
	// The fallback always receives the write so a later failover still sees
	// the current pair.
	_ = s.fallback.SetTokens(ctx, access, refresh)
	if s.primaryUsable() {
		err := s.primary.SetTokens(ctx, access, refresh)
		if err == nil {
			s.isDown.Store(false)
			return nil
		}
		s.markDown(err)
	}
	return nil
}

func (s *FailoverCredentialStore) ClearTokens(ctx context.Context) error {
	_ = s.fallback.ClearTokens(ctx)
	if s.primaryUsable() {
		err := s.primary.ClearTokens(ctx)
		if err == nil {
			s.isDown.Store(false)
			return nil
		}
		s.markDown(err)
	}
	return nil
}

func (s *FailoverCredentialStore) User(ctx context.Context) (*models.User, error) {
	if s.primaryUsable() {
		user, err := s.primary.User(ctx)
		if err == nil {
			s.isDown.Store(false)
			return user, nil
		}
		s.markDown(err)
	}
	return s.fallback.User(ctx)
}

func (s *FailoverCredentialStore) SetUser(ctx context.Context, user *models.User) error {
	_ = s.fallback.SetUser(ctx, user)
	if s.primaryUsable() {
		err := s.primary.SetUser(ctx, user)
		if err == nil {
			s.isDown.Store(false)
			return nil
		}
		s.markDown(err)
	}
	return nil
}

func (s *FailoverCredentialStore) ClearUser(ctx context.Context) error {
	_ = s.fallback.ClearUser(ctx)
	if s.primaryUsable() {
		err := s.primary.ClearUser(ctx)
		if err == nil {
			s.isDown.Store(false)
			return nil
		}
		s.markDown(err)
	}
	return nil
}
