package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"
)

// Store keeps users and sessions in a SQLite database, created and
// migrated on first run.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create auth db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open auth database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping auth database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run auth migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Register creates a user and resolves its ledger account name. A
// duplicate username is a recoverable ErrUsernameTaken; the account
// name is intentionally not checked for uniqueness.
func (s *Store) Register(ctx context.Context, username, password, accountType, accountName string) (*User, error) {
	username = strings.TrimSpace(username)
	if !namePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if password == "" {
		return nil, ErrBlankPassword
	}

	account, err := accountFor(username, accountType, accountName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Account:      account,
		CreatedAt:    time.Now().UTC(),
	}

	const query = `INSERT INTO users (id, username, password_hash, account, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, u.ID.String(), u.Username, u.PasswordHash, u.Account, u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "username", u.Username, "account", u.Account)
	return u, nil
}

// Authenticate verifies a credential. Unknown usernames and wrong
// passwords both answer ErrInvalidCredentials so the response never
// reveals whether the username exists.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*User, error) {
	const query = `SELECT id, username, password_hash, account, created_at FROM users WHERE username = ?`

	var (
		u  User
		id string
	)
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(username)).Scan(
		&id, &u.Username, &u.PasswordHash, &u.Account, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// CreateSession issues a random-token session for a logged-in user.
func (s *Store) CreateSession(ctx context.Context, u *User) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.New(),
		Token:     token,
		Username:  u.Username,
		Account:   u.Account,
		ExpiresAt: time.Now().Add(sessionTTL),
		CreatedAt: time.Now(),
	}

	const query = `INSERT INTO sessions (id, token, username, account, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query,
		sess.ID.String(), sess.Token, sess.Username, sess.Account, sess.ExpiresAt, sess.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// SessionByToken resolves and validates a session token.
func (s *Store) SessionByToken(ctx context.Context, token string) (*Session, error) {
	const query = `SELECT id, token, username, account, expires_at, created_at FROM sessions WHERE token = ?`

	var (
		sess Session
		id   string
	)
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&id, &sess.Token, &sess.Username, &sess.Account, &sess.ExpiresAt, &sess.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	sess.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing session id: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrExpiredSession
	}
	return &sess, nil
}

// DeleteSession removes a session (logout).
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
