// Package session owns the locally persisted proof of authentication:
// the access token, its issuance time, and the handful of preferences
// that survive a restart (remembered email, display currency). It is
// the only component that writes this state; everything else receives
// a *Store and asks.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// TokenTTL is the validity window of an access token measured from
// issuance. Past it the stored session is treated as absent.
const TokenTTL = 39600 * time.Second // 11 hours

// Preference keys.
const (
	prefRememberedEmail = "remembered_email"
	prefCurrency        = "currency"
)

// Session is the persisted token plus its issuance timestamp.
type Session struct {
	Token    string
	IssuedAt time.Time
}

// ExpiresAt returns the instant the session stops being usable.
func (s Session) ExpiresAt() time.Time {
	return s.IssuedAt.Add(TokenTTL)
}

// Store persists the single current session in a local SQLite file.
// Single reader/writer; no cross-process coordination is attempted.
type Store struct {
	db *sql.DB

	// now is swappable for expiry tests.
	now func() time.Time
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create session db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save overwrites any existing session with the given token and
// issuance time.
func (s *Store) Save(ctx context.Context, token string, issuedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, token, issued_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, issued_at = excluded.issued_at`,
		token, issuedAt.Unix())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	slog.InfoContext(ctx, "Session saved", "expires_at", issuedAt.Add(TokenTTL))
	return nil
}

// Current returns the stored session when it is still inside the
// validity window, or nil when none is stored. An expired session is
// cleared on the spot so a subsequent read observes the store empty.
func (s *Store) Current(ctx context.Context) (*Session, error) {
	var (
		token    string
		issuedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, issued_at FROM session WHERE id = 1`).Scan(&token, &issuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	sess := Session{Token: token, IssuedAt: time.Unix(issuedAt, 0)}
	if s.now().Sub(sess.IssuedAt) >= TokenTTL {
		slog.InfoContext(ctx, "Session expired, clearing", "issued_at", sess.IssuedAt)
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &sess, nil
}

// Clear removes the stored token and timestamp. Used on logout and on
// detected expiry. Preferences survive.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// RememberEmail stores the sign-in email for pre-filling the next
// prompt. The password is deliberately never persisted.
func (s *Store) RememberEmail(ctx context.Context, email string) error {
	return s.setPreference(ctx, prefRememberedEmail, email)
}

// RememberedEmail returns the stored sign-in email, or "" when the
// user did not opt in.
func (s *Store) RememberedEmail(ctx context.Context) (string, error) {
	return s.preference(ctx, prefRememberedEmail)
}

// ForgetEmail drops the remembered sign-in email.
func (s *Store) ForgetEmail(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, prefRememberedEmail)
	if err != nil {
		return fmt.Errorf("forget email: %w", err)
	}
	return nil
}

// SetCurrency stores the display-currency preference (ISO code).
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	return s.setPreference(ctx, prefCurrency, code)
}

// Currency returns the stored display currency, falling back to the
// given default when none was chosen yet.
func (s *Store) Currency(ctx context.Context, fallback string) (string, error) {
	code, err := s.preference(ctx, prefCurrency)
	if err != nil {
		return "", err
	}
	if code == "" {
		return fallback, nil
	}
	return code, nil
}

func (s *Store) setPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

func (s *Store) preference(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read preference %s: %w", key, err)
	}
	return value, nil
}
