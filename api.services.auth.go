package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// AuthServiceProvider handles account creation and credential issuance.
type AuthServiceProvider interface {
	Register(ctx context.Context, username, password string) (User, error)
	Login(ctx context.Context, username, password string) (string, User, error)
	SeedAdminAccount(ctx context.Context) error
}

type AuthService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	storage UserStorage
	hasher  PasswordHasher
	tokens  TokenHandler
}

func NewAuthService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage UserStorage, hasher PasswordHasher, tokens TokenHandler) AuthServiceProvider {
	return &AuthService{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		storage: storage,
		hasher:  hasher,
		tokens:  tokens,
	}
}

// Register creates a regular account. Usernames are unique, roles are
// fixed: only the seeded admin account carries the admin role.
func (as *AuthService) Register(ctx context.Context, username, password string) (User, error) {
	return as.register(ctx, username, password, RoleUser)
}

func (as *AuthService) register(ctx context.Context, username, password string, role Role) (User, error) {
	hash, err := as.hasher.Hash(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:             as.ids.Generate(UserIDPrefix),
		Username:       username,
		HashedPassword: hash,
		Role:           role,
		CreatedAt:      as.clock.Now().UTC().String(),
	}
	if err := as.storage.Add(ctx, user); err != nil {
		return User{}, err
	}

	user.HashedPassword = ""
	return user, nil
}

// Login verifies the credentials and issues a signed time-bounded token.
// Unknown username and wrong password are indistinguishable to the caller.
func (as *AuthService) Login(ctx context.Context, username, password string) (string, User, error) {
	user, err := as.storage.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return "", User{}, ErrWrongCredentials
	}
	if err != nil {
		return "", User{}, err
	}

	if err := as.hasher.Compare(user.HashedPassword, password); err != nil {
		return "", User{}, ErrWrongCredentials
	}

	token, err := as.tokens.Issue(user)
	if err != nil {
		return "", User{}, err
	}

	user.HashedPassword = ""
	return token, user, nil
}

// SeedAdminAccount creates the configured admin account at boot when it
// does not exist yet. Roles are not otherwise assignable through the api.
func (as *AuthService) SeedAdminAccount(ctx context.Context) error {
	if as.config.Auth.AdminUsername == "" || as.config.Auth.AdminPassword == "" {
		return nil
	}
	_, err := as.register(ctx, as.config.Auth.AdminUsername, as.config.Auth.AdminPassword, RoleAdmin)
	if errors.Is(err, ErrUsernameTaken) {
		return nil
	}
	return err
}
