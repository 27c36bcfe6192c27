package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vaultpass/passforge-go/internal/crypto"
	"github.com/vaultpass/passforge-go/internal/model"
	"github.com/vaultpass/passforge-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already taken")
)

// AccountStore persists accounts.
type AccountStore interface {
	Create(ctx context.Context, acct *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
}

// Hasher hashes and verifies account passwords.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) (bool, error)
}

// AccountService handles registration and login.
type AccountService struct {
	store     AccountStore
	hasher    Hasher
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, hasher Hasher, secret string, expiry time.Duration) *AccountService {
	return &AccountService{
		store:     store,
		hasher:    hasher,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates an account and returns a token for it.
func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	acct := &model.Account{Email: email, AuthHash: hash, CreatedAt: time.Now().UTC()}
	if err := s.store.Create(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}
	return s.authResponse(acct)
}

// Login checks credentials and returns a token.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	acct, err := s.store.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, acct.AuthHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}
	return s.authResponse(acct)
}

// GetAccount returns public data for id.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (model.AccountResponse, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.AccountResponse{}, err
	}
	return toAccountResponse(acct), nil
}

func (s *AccountService) authResponse(acct *model.Account) (model.AuthResponse, error) {
	token, err := crypto.IssueToken(acct.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, Account: toAccountResponse(acct)}, nil
}

func toAccountResponse(acct *model.Account) model.AccountResponse {
	return model.AccountResponse{ID: acct.ID, Email: acct.Email, CreatedAt: acct.CreatedAt}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
