// Package session owns the authenticated-user lifecycle: login, registration,
// logout, profile maintenance and the startup probe that reconciles the cached
// user snapshot with the server.
package session

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"museovini/internal/apiclient"
	"museovini/internal/domain"
	"museovini/internal/events"
	"museovini/internal/models"

	"github.com/rs/zerolog"
)

// Manager tracks the current session. It starts in the loading state and
// stays there until Resolve has checked the stored credentials against the
// server, so callers can distinguish "not logged in" from "not yet known".
type Manager struct {
	api    *apiclient.Client
	creds  domain.CredentialStore
	bus    domain.EventPublisher
	logger *zerolog.Logger

	mu      sync.RWMutex
	loading bool
	user    *models.User
}

// NewManager seeds the session from the cached user snapshot so a returning
// user is treated as signed in immediately. The snapshot stays provisional
// until Resolve confirms it.
func NewManager(api *apiclient.Client, creds domain.CredentialStore, bus domain.EventPublisher, logger *zerolog.Logger) *Manager {
	m := &Manager{
		api:     api,
		creds:   creds,
		bus:     bus,
		logger:  logger,
		loading: true,
	}

	cached, err := creds.User(context.Background())
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read cached user snapshot")
	}
	m.user = cached
	return m
}

// Resolve validates the stored session against the server. With no tokens on
// hand it settles to signed-out without a network call. Any probe failure,
// network or otherwise, forces a local logout: better a spurious sign-in
// prompt than a session the server no longer honours.
func (m *Manager) Resolve(ctx context.Context) error {
	access, aerr := m.creds.AccessToken(ctx)
	refresh, rerr := m.creds.RefreshToken(ctx)
	if (aerr != nil || access == "") && (rerr != nil || refresh == "") {
		m.setUser(nil, false)
		_ = m.creds.ClearUser(ctx)
		return nil
	}

	var user models.User
	err := m.api.RequestJSON(ctx, "/users/me", apiclient.Options{Auth: true}, &user)
	if err != nil {
		m.logger.Warn().Err(err).Msg("session probe failed, signing out locally")
		m.forceLogout(ctx)
		return err
	}

	if err := m.creds.SetUser(ctx, &user); err != nil {
		m.logger.Warn().Err(err).Msg("failed to cache user snapshot")
	}
	m.setUser(&user, false)
	return nil
}

// Login exchanges credentials for a token pair and loads the profile. The
// session only transitions to signed-in once both steps succeed.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var pair models.TokenPair
	err := m.api.RequestJSON(ctx, "/token", apiclient.Options{Method: http.MethodPost, Form: form}, &pair)
	if err != nil {
		return nil, err
	}
	if err := m.creds.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, err
	}

	var user models.User
	if err := m.api.RequestJSON(ctx, "/users/me", apiclient.Options{Auth: true}, &user); err != nil {
		_ = m.creds.ClearTokens(ctx)
		return nil, err
	}

	if err := m.creds.SetUser(ctx, &user); err != nil {
		m.logger.Warn().Err(err).Msg("failed to cache user snapshot")
	}
	m.setUser(&user, false)

	_ = m.bus.PublishJSON(events.EventSessionStarted, events.SessionEventPayload{UserID: user.ID, Email: user.Email})
	m.logger.Info().Int64("user_id", user.ID).Msg("session started")
	return &user, nil
}

// Register creates the account and signs it in.
func (m *Manager) Register(ctx context.Context, payload models.RegisterPayload) (*models.User, error) {
	opt := apiclient.Options{Method: http.MethodPost, Body: payload}
	if err := m.api.RequestJSON(ctx, "/users/", opt, nil); err != nil {
		return nil, err
	}
	return m.Login(ctx, payload.Email, payload.Password)
}

// Logout discards local credentials. It is purely local and always succeeds.
func (m *Manager) Logout(ctx context.Context) {
	current := m.Current()
	m.forceLogout(ctx)
	if current != nil {
		_ = m.bus.PublishJSON(events.EventSessionEnded, events.SessionEventPayload{UserID: current.ID, Email: current.Email})
	}
	m.logger.Info().Msg("session ended")
}

// UpdateProfile sends the changed fields and adopts the server's response as
// the new snapshot.
func (m *Manager) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	var user models.User
	opt := apiclient.Options{Method: http.MethodPut, Body: update, Auth: true}
	if err := m.api.RequestJSON(ctx, "/users/me", opt, &user); err != nil {
		return nil, err
	}

	if err := m.creds.SetUser(ctx, &user); err != nil {
		m.logger.Warn().Err(err).Msg("failed to cache user snapshot")
	}
	m.setUser(&user, false)
	return &user, nil
}

// ChangePassword verifies the current password server-side and replaces it.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	opt := apiclient.Options{Method: http.MethodPost, Body: body, Auth: true}
	return m.api.RequestJSON(ctx, "/users/me/password", opt, nil)
}

// Current returns the session's user, or nil when signed out.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.IsAdmin
}

func (m *Manager) setUser(user *models.User, loading bool) {
	m.mu.Lock()
	m.user = user
	m.loading = loading
	m.mu.Unlock()
}

func (m *Manager) forceLogout(ctx context.Context) {
	_ = m.creds.ClearTokens(ctx)
	_ = m.creds.ClearUser(ctx)
	m.setUser(nil, false)
}
