// Package services contains server-side business logic. This file implements
// UserService: registration, login, token verification and the admin gate.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/authboard/internal/common"
	"github.com/dmitrijs2005/authboard/internal/dbx"
	"github.com/dmitrijs2005/authboard/internal/server/auth"
	"github.com/dmitrijs2005/authboard/internal/server/models"
	"github.com/dmitrijs2005/authboard/internal/server/repositories/repomanager"
)

// UserService authenticates users against the credential store.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      *auth.TokenManager

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService wires the service to its store, hasher and token manager.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens *auth.TokenManager) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Register validates input, creates the user and issues its first token.
// Uniqueness is checked inside the same transaction as the insert; a
// concurrent writer that wins the race still surfaces as a conflict through
// the store's unique constraints.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, "", common.ErrRequiredFields
	}
	if !strings.Contains(email, "@") {
		return nil, "", common.NewValidationError("invalid email address")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, "", common.ErrPasswordTooLong
		}
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.FindByUsername(ctx, username)
		switch {
		case err == nil:
			return common.ErrUsernameExists
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error checking username: %w", err)
		}

		_, err = repo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrEmailExists
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error checking email: %w", err)
		}

		user, err = repo.Create(ctx, username, email, hash)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("error issuing token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and issues a fresh token. Unknown usernames and
// wrong passwords produce the same error, and an unknown username still pays
// for one hash comparison.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", common.NewValidationError("username and password are required")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = s.hasher.Compare(s.dummyPasswordHash(), password)
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error searching user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("error verifying password: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("error issuing token: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to its user. Each step is a hard
// gate: bad token, expired token, then unknown subject.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error resolving token subject: %w", err)
	}

	return user, nil
}

// RequireAdmin lets only the distinguished admin account through.
func (s *UserService) RequireAdmin(user *models.User) error {
	return RequireAdmin(user)
}

// RequireAdmin is the admin gate shared by the service and the page views.
func RequireAdmin(user *models.User) error {
	if user == nil {
		return common.ErrUserNotFound
	}
	if user.Username != common.AdminUsername {
		return common.ErrAdminRequired
	}
	return nil
}

// fallbackDummyHash is a well-formed bcrypt hash (cost 10) used when the
// configured hasher cannot produce one, so unknown-user logins still pay for
// a full comparison.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *UserService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash = fallbackDummyHash
		if h, err := s.hasher.Hash("timing-equalizer"); err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
