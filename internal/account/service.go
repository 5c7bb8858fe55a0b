package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tychan/site-api/internal/account/entity"
	accountrepo "github.com/tychan/site-api/internal/account/repo"
	"github.com/tychan/site-api/pkg/displayname"
)

// DefaultCost is the bcrypt work factor used for stored passwords.
const DefaultCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// AccountService runs the login and credential flows.
type AccountService struct {
	repo   *accountrepo.AccountRepo
	hasher PasswordHasher
}

func NewAccountService(r *accountrepo.AccountRepo, hasher PasswordHasher) *AccountService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: DefaultCost}
	}
	return &AccountService{repo: r, hasher: hasher}
}

var (
	// ErrAccountUnavailable covers both missing and disabled accounts.
	ErrAccountUnavailable = errors.New("account missing or disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingAccountName = errors.New("missing account name")
	ErrMissingPassword    = errors.New("missing password")
	// ErrPasswordTooLong is returned for passwords over MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password too long")
)

// CheckUserExists reports whether an active account with this name exists.
func (s *AccountService) CheckUserExists(ctx context.Context, accountName string) (*entity.UserSummary, error) {
	accountName = strings.TrimSpace(accountName)
	if accountName == "" {
		return nil, ErrAccountUnavailable
	}
	u, err := s.repo.GetActiveByAccountName(ctx, accountName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountUnavailable
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return &entity.UserSummary{AccountName: u.AccountName}, nil
}

// VerifyPassword checks password against the account's active hash credential.
// Every rejection, whatever the step, is ErrInvalidCredentials.
func (s *AccountService) VerifyPassword(ctx context.Context, accountName, password string) (*entity.AuthView, error) {
	accountName = strings.TrimSpace(accountName)
	if accountName == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.GetActiveByAccountName(ctx, accountName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		} // avoid user enumeration
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	cred, err := s.repo.GetActiveCredential(ctx, u.ID, entity.CredentialTypeHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}
	if cred.Type != entity.CredentialTypeHash || !s.hasher.Verify(cred.Content, password) {
		return nil, ErrInvalidCredentials
	}
	return &entity.AuthView{ID: u.ID, DisplayName: displayname.Format(u.NameFields())}, nil
}

// SetPassword replaces the account's active hash credential.
func (s *AccountService) SetPassword(ctx context.Context, accountName, password string) error {
	accountName = strings.TrimSpace(accountName)
	if accountName == "" {
		return ErrMissingAccountName
	}
	if password == "" {
		return ErrMissingPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	u, err := s.repo.GetActiveByAccountName(ctx, accountName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountUnavailable
		}
		return fmt.Errorf("lookup account: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.RotateHash(ctx, u.ID, hash)
}

// GeneratePasswordHash returns a one-way hash of password for administrative use.
func (s *AccountService) GeneratePasswordHash(password string) (string, error) {
	if password == "" {
		return "", ErrMissingPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	return s.hasher.Hash(password)
}
