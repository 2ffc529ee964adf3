package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"museovini/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCredentialStore keeps credentials in a local database file, the
// default for single-user installs. The file survives restarts, which is what
// keeps a visitor signed in between runs.
type SQLiteCredentialStore struct {
	db *sql.DB
}

func NewSQLiteCredentialStore(path string) (*SQLiteCredentialStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS credentials (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create credentials table: %w", err)
	}

	return &SQLiteCredentialStore{db: db}, nil
}

func (s *SQLiteCredentialStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteCredentialStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM credentials WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteCredentialStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteCredentialStore) del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE key = ?", key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

func (s *SQLiteCredentialStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyAccessToken)
}

func (s *SQLiteCredentialStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyRefreshToken)
}

func (s *SQLiteCredentialStore) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.set(ctx, keyAccessToken, access); err != nil {
		return err
	}
	return s.set(ctx, keyRefreshToken, refresh)
}

func (s *SQLiteCredentialStore) ClearTokens(ctx context.Context) error {
	return s.del(ctx, keyAccessToken, keyRefreshToken)
}

func (s *SQLiteCredentialStore) User(ctx context.Context) (*models.User, error) {
	raw, err := s.get(ctx, keyUserSnapshot)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

func (s *SQLiteCredentialStore) SetUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.ClearUser(ctx)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}
	return s.set(ctx, keyUserSnapshot, string(data))
}

func (s *SQLiteCredentialStore) ClearUser(ctx context.Context) error {
	return s.del(ctx, keyUserSnapshot)
}
