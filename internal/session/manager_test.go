package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"museovini/internal/apiclient"
	"museovini/internal/config"
	"museovini/internal/events"
	"museovini/internal/models"
	"museovini/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	manager *Manager
	creds   *store.MemoryCredentialStore
	bus     *events.EventBus
}

func newSessionFixture(t *testing.T, baseURL string, seed func(*store.MemoryCredentialStore)) *sessionFixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	creds := store.NewMemoryCredentialStore()
	if seed != nil {
		seed(creds)
	}
	client, err := apiclient.New(config.APIConfig{BaseURL: baseURL, TimeoutSeconds: 5}, creds, &logger)
	require.NoError(t, err)
	bus := events.NewEventBus()
	return &sessionFixture{
		manager: NewManager(client, creds, bus, &logger),
		creds:   creds,
		bus:     bus,
	}
}

func serveUser(user models.User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(user)
	}
}

func TestManagerStartsLoadingWithCachedSnapshot(t *testing.T) {
	fix := newSessionFixture(t, "http://127.0.0.1:1", func(creds *store.MemoryCredentialStore) {
		_ = creds.SetTokens(context.Background(), "access", "refresh")
		_ = creds.SetUser(context.Background(), &models.User{ID: 3, Name: "Nina"})
	})

	assert.True(t, fix.manager.IsLoading())
	assert.True(t, fix.manager.IsAuthenticated())
	require.NotNil(t, fix.manager.Current())
	assert.Equal(t, int64(3), fix.manager.Current().ID)
}

func TestResolveWithoutTokensSettlesSignedOut(t *testing.T) {
	fix := newSessionFixture(t, "http://127.0.0.1:1", nil)

	require.NoError(t, fix.manager.Resolve(context.Background()))

	assert.False(t, fix.manager.IsLoading())
	assert.False(t, fix.manager.IsAuthenticated())
}

func TestResolveConfirmsCachedUser(t *testing.T) {
	srv := httptest.NewServer(serveUser(models.User{ID: 7, Name: "Nina", Email: "nina@example.com"}))
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, func(creds *store.MemoryCredentialStore) {
		_ = creds.SetTokens(context.Background(), "access", "refresh")
		_ = creds.SetUser(context.Background(), &models.User{ID: 7, Name: "Stale Nina"})
	})

	require.NoError(t, fix.manager.Resolve(context.Background()))

	assert.False(t, fix.manager.IsLoading())
	require.NotNil(t, fix.manager.Current())
	assert.Equal(t, "Nina", fix.manager.Current().Name)

	cached, err := fix.creds.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Nina", cached.Name)
}

func TestResolveProbeFailureForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Token expired"}`))
	})
	mux.HandleFunc("/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Refresh token expired"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, func(creds *store.MemoryCredentialStore) {
		_ = creds.SetTokens(context.Background(), "access", "refresh")
		_ = creds.SetUser(context.Background(), &models.User{ID: 7})
	})

	require.Error(t, fix.manager.Resolve(context.Background()))

	assert.False(t, fix.manager.IsLoading())
	assert.False(t, fix.manager.IsAuthenticated())

	access, err := fix.creds.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, access)
	cached, err := fix.creds.User(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestLoginStoresTokensAndProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") != "nina@example.com" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail": "Incorrect username or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"})
	})
	mux.HandleFunc("/users/me", serveUser(models.User{ID: 7, Name: "Nina", Email: "nina@example.com"}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, nil)

	var started []events.SessionEventPayload
	fix.bus.Subscribe(events.EventSessionStarted, func(e *events.Event) error {
		var payload events.SessionEventPayload
		_ = json.Unmarshal(e.Payload, &payload)
		started = append(started, payload)
		return nil
	})

	user, err := fix.manager.Login(context.Background(), "nina@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.True(t, fix.manager.IsAuthenticated())
	assert.False(t, fix.manager.IsLoading())

	access, err := fix.creds.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", access)

	require.Len(t, started, 1)
	assert.Equal(t, int64(7), started[0].UserID)
}

func TestLoginRejectedLeavesSessionSignedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Incorrect username or password"}`))
	}))
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, nil)

	_, err := fix.manager.Login(context.Background(), "nina@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", err.Error())
	assert.False(t, fix.manager.IsAuthenticated())
}

// After login the startup probe yields the same signed-in user: confirming an
// already-confirmed session is a no-op, not a logout.
func TestResolveAfterLoginKeepsUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"})
	})
	mux.HandleFunc("/users/me", serveUser(models.User{ID: 7, Name: "Nina"}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, nil)

	logged, err := fix.manager.Login(context.Background(), "nina@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, fix.manager.Resolve(context.Background()))
	require.NotNil(t, fix.manager.Current())
	assert.Equal(t, logged.ID, fix.manager.Current().ID)
}

func TestRegisterCreatesAccountAndSignsIn(t *testing.T) {
	var registered models.RegisterPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 11}`))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"})
	})
	mux.HandleFunc("/users/me", serveUser(models.User{ID: 11, Name: "Omar", Email: "omar@example.com"}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, nil)

	user, err := fix.manager.Register(context.Background(), models.RegisterPayload{
		Name: "Omar", Surname: "Ricci", Email: "omar@example.com", Phone: "555", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.ID)
	assert.Equal(t, "omar@example.com", registered.Email)
	assert.True(t, fix.manager.IsAuthenticated())
}

func TestLogoutClearsEverythingLocally(t *testing.T) {
	fix := newSessionFixture(t, "http://127.0.0.1:1", func(creds *store.MemoryCredentialStore) {
		_ = creds.SetTokens(context.Background(), "access", "refresh")
		_ = creds.SetUser(context.Background(), &models.User{ID: 7, Email: "nina@example.com"})
	})

	var ended int
	fix.bus.Subscribe(events.EventSessionEnded, func(*events.Event) error {
		ended++
		return nil
	})

	fix.manager.Logout(context.Background())

	assert.False(t, fix.manager.IsAuthenticated())
	access, err := fix.creds.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, access)
	cached, err := fix.creds.User(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.Equal(t, 1, ended)
}

func TestUpdateProfileAdoptsServerResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var update models.ProfileUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		require.NotNil(t, update.Phone)
		_ = json.NewEncoder(w).Encode(models.User{ID: 7, Name: "Nina", Phone: *update.Phone})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, func(creds *store.MemoryCredentialStore) {
		_ = creds.SetTokens(context.Background(), "access", "refresh")
		_ = creds.SetUser(context.Background(), &models.User{ID: 7, Name: "Nina", Phone: "111"})
	})

	phone := "222"
	user, err := fix.manager.UpdateProfile(context.Background(), models.ProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "222", user.Phone)

	cached, err := fix.creds.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "222", cached.Phone)
}

func TestChangePasswordSendsBothFields(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/me/password", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"detail": "Password updated successfully"}`))
	}))
	defer srv.Close()

	fix := newSessionFixture(t, srv.URL, func(creds *store.MemoryCredentialStore) {
		_ = creds.SetTokens(context.Background(), "access", "refresh")
	})

	require.NoError(t, fix.manager.ChangePassword(context.Background(), "old-pass", "new-pass"))
	assert.Equal(t, "old-pass", got["current_password"])
	assert.Equal(t, "new-pass", got["new_password"])
}
