// Package auth maps login identities to ledger account names. Several
// usernames may point at the same account name, which is how shared
// household ledgers work: the account name selects the ledger file, and
// nothing forces it to be unique across registrations.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// AccountIndividual registers a private account named after the user.
	AccountIndividual = "individual"
	// AccountShared registers (or joins) a caller-named shared account.
	AccountShared = "shared"

	individualPrefix = "individual_"
	sessionTTL       = 7 * 24 * time.Hour

	// CookieName is the session cookie used by the HTTP layer.
	CookieName = "sessao"
)

var (
	ErrUsernameTaken      = errors.New("nome de usuário já existe")
	ErrInvalidCredentials = errors.New("usuário ou senha inválidos")
	ErrInvalidUsername    = errors.New("nome de usuário inválido")
	ErrBlankPassword      = errors.New("senha não pode ser vazia")
	ErrBlankAccountName   = errors.New("nome da conta compartilhada é obrigatório")
	ErrInvalidAccountType = errors.New("tipo de conta inválido")
	ErrInvalidSession     = errors.New("sessão inválida")
	ErrExpiredSession     = errors.New("sessão expirada")
)

// usernames and shared account names become ledger filenames, so they
// are restricted to a filesystem-safe alphabet.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Account      string
	CreatedAt    time.Time
}

type Session struct {
	ID        uuid.UUID
	Token     string
	Username  string
	Account   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Gateway is the account/session surface the HTTP layer depends on.
type Gateway interface {
	Register(ctx context.Context, username, password, accountType, accountName string) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	CreateSession(ctx context.Context, u *User) (*Session, error)
	SessionByToken(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// accountFor resolves the ledger account name for a registration.
func accountFor(username, accountType, accountName string) (string, error) {
	switch accountType {
	case AccountIndividual:
		return individualPrefix + username, nil
	case AccountShared:
		accountName = strings.TrimSpace(accountName)
		if accountName == "" {
			return "", ErrBlankAccountName
		}
		if !namePattern.MatchString(accountName) {
			return "", ErrBlankAccountName
		}
		return accountName, nil
	default:
		return "", ErrInvalidAccountType
	}
}
