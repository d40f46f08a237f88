// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and issuing JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/dbx"
	"github.com/dmitrijs2005/taskhub/internal/server/auth"
	"github.com/dmitrijs2005/taskhub/internal/server/config"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/dmitrijs2005/taskhub/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users with hashed passwords
// - Login: verify credentials and mint an access token
// - GetByID: load a user's public profile
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	passwordHashCost            int
	dummyDigest                 string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	cost := cfg.PasswordHashCost
	if cost == 0 {
		cost = auth.DefaultHashCost
	}

	// digest verified against when the email is unknown, so the
	// unknown-email path costs the same as a wrong password
	dummy, err := auth.HashPassword("login-probe", cost)
	if err != nil {
		dummy, _ = auth.HashPassword("login-probe", auth.DefaultHashCost)
	}

	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		passwordHashCost:            cost,
		dummyDigest:                 dummy,
	}
}

// Register creates a new user with the given email, password, and name.
// The uniqueness check and the insert run in one transaction; the unique
// index on email settles concurrent registrations. The returned user
// never carries the password hash.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	var created *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrEmailAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}

		digest, err := auth.HashPassword(password, s.passwordHashCost)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{Email: email, Name: name, PasswordHash: digest})
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.PasswordHash = ""
	return created, nil
}

// Login verifies the credentials and, on success, returns a signed access
// token for the user's id plus the user's public fields. An unknown email
// and a wrong password yield the same ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(password, s.dummyDigest)
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	user.PasswordHash = ""
	return token, user, nil
}

// GetByID loads a user's public profile.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}
