// Package services contains the operation-resolution layer: the business
// logic behind every query and mutation. This file implements AuthService,
// which handles signup and login and mints JWTs.
package services

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
	"github.com/dmitrijs2005/staffkeeper/internal/server/auth"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffkeeper/internal/server/validation"
)

// tokenValidity is the fixed lifetime of a login token.
const tokenValidity = time.Hour

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// invalidCredentials is the single message for both "no such account" and
// "wrong password", so responses cannot be used to enumerate accounts.
var invalidCredentials = apperr.Unauthorized("invalid credentials")

// AccountView is the public projection of an account. It never carries the
// password hash.
type AccountView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthService provides the login and signup operations.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	logger      logging.Logger
}

// NewAuthService constructs an AuthService using repositories and server
// config. The config was validated at startup, so the signing key is known
// to be present.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		logger:      l.With("module", "auth_service"),
	}
}

// Login verifies the supplied credentials and returns a signed token.
// The account may be identified by username, email, or both.
func (s *AuthService) Login(ctx context.Context, username, email, password string) (string, error) {
	if (username == "" && email == "") || password == "" {
		return "", apperr.BadRequest("provide username or email, and password")
	}

	if email != "" && !validation.IsValidEmail(email) {
		return "", apperr.BadRequest("invalid email format")
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByUsernameOrEmail(ctx, username, validation.NormalizeEmail(email))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", invalidCredentials
		}
		return "", apperr.Internal("login failed", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", invalidCredentials
	}

	token, err := auth.GenerateToken(account.ID, account.Username, account.Email, s.jwtSecret, tokenValidity)
	if err != nil {
		return "", apperr.Internal("token signing failed", err)
	}

	s.logger.Info(ctx, "login", "username", account.Username)
	return token, nil
}

// Signup creates an account and returns its public projection. The stored
// password is a bcrypt hash; the plaintext is never persisted or returned.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*AccountView, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperr.BadRequest("username, email, and password are required")
	}

	cleanUsername := validation.NormalizeString(username)
	cleanEmail := validation.NormalizeEmail(email)

	if len(cleanUsername) < minUsernameLen {
		return nil, apperr.BadRequest("username must be at least %d characters", minUsernameLen)
	}
	if !validation.IsValidEmail(cleanEmail) {
		return nil, apperr.BadRequest("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, apperr.BadRequest("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("password hashing failed", err)
	}

	var created *models.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		// Friendly pre-check; the unique indexes remain authoritative for
		// whichever concurrent signup loses.
		exists, err := repo.Exists(ctx, cleanUsername, cleanEmail)
		if err != nil {
			return apperr.Internal("signup failed", err)
		}
		if exists {
			return apperr.BadRequest("user with same username or email already exists")
		}

		created, err = repo.Create(ctx, &models.Account{
			Username:     cleanUsername,
			Email:        cleanEmail,
			PasswordHash: string(hash),
		})
		return err
	})
	if err != nil {
		return nil, taggedOr(err, "signup failed")
	}

	s.logger.Info(ctx, "account created", "username", created.Username)
	return &AccountView{
		ID:        created.ID,
		Username:  created.Username,
		Email:     created.Email,
		CreatedAt: created.CreatedAt,
	}, nil
}
