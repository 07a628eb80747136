package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ourunion/unionhub/internal/common"
	"github.com/ourunion/unionhub/internal/dbx"
	"github.com/ourunion/unionhub/internal/server/auth"
	"github.com/ourunion/unionhub/internal/server/config"
	"github.com/ourunion/unionhub/internal/server/models"
	"github.com/ourunion/unionhub/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IdentityService owns accounts and token issuance. Member profile data is
// not handled here; it rides the synchronized MemberSet like any other
// entity set.
type IdentityService struct {
	db                           *sql.DB
	repos                        repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewIdentityService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *IdentityService {
	return &IdentityService{
		db:                           db,
		repos:                        repos,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an account for a member profile. The password is
// bcrypt-hashed before it touches storage.
func (s *IdentityService) Register(ctx context.Context, login, password, memberID string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: string(hash),
		MemberID:     memberID,
	}

	repo := s.repos.Accounts(s.db)
	if err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrLoginTaken) {
			return nil, common.ErrLoginTaken
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

// EnsureAdmin creates the bootstrap admin account from the configured
// credentials when no account with that login exists yet. It is called
// once at startup; an existing account is left untouched so a password
// change in the config does not silently rewrite a live credential. An
// empty login disables bootstrapping.
func (s *IdentityService) EnsureAdmin(ctx context.Context, login, password string) error {
	if login == "" {
		return nil
	}

	repo := s.repos.Accounts(s.db)
	if _, err := repo.GetByLogin(ctx, login); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error looking up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := repo.Create(ctx, account); err != nil {
		return fmt.Errorf("error creating admin account: %w", err)
	}
	return nil
}

// Login verifies the credential and mints a token pair.
func (s *IdentityService) Login(ctx context.Context, login, password string) (*models.Account, *TokenPair, error) {
	repo := s.repos.Accounts(s.db)
	account, err := repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthorized
		}
		return nil, nil, common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, nil, common.ErrUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, account, s.db)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh pair. Expired tokens yield ErrRefreshTokenExpired.
func (s *IdentityService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repos.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	account, err := s.repos.Accounts(s.db).GetByID(ctx, token.AccountID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, account, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// VerifyAccessToken parses and validates a bearer token.
func (s *IdentityService) VerifyAccessToken(tokenString string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (s *IdentityService) generateTokenPair(ctx context.Context, account *models.Account, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(account.ID, account.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := s.repos.RefreshTokens(tx).Create(ctx, account.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
