package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// memoryUserStorage wires the user storage mock to a plain map so the
// register and login paths exercise real uniqueness and lookup behavior.
func memoryUserStorage() *MockUserStorage {
	users := map[string]User{}
	return &MockUserStorage{
		AddFunc: func(ctx context.Context, user User) error {
			if _, exists := users[user.Username]; exists {
				return ErrUsernameTaken
			}
			users[user.Username] = user
			return nil
		},
		GetByUsernameFunc: func(ctx context.Context, username string) (User, error) {
			user, exists := users[username]
			if !exists {
				return User{}, ErrUserNotFound
			}
			return user, nil
		},
	}
}

func newTestAuthService(config *Config, clock Clocker) (AuthServiceProvider, TokenHandler) {
	tokens := NewJWTHandler(&config.Auth, clock)
	hasher := NewBcryptHasher(bcrypt.MinCost)
	return NewAuthService(zap.NewNop(), config, clock, NewIDsHandler(), memoryUserStorage(), hasher, tokens), tokens
}

func testAuthConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			JWTSecret: "unit-tests-secret",
			TokenTTL:  24 * time.Hour,
		},
	}
}

// TestRegister ensures account creation and username uniqueness.
func TestRegister(t *testing.T) {
	as, _ := newTestAuthService(testAuthConfig(), NewMockClocker())

	t.Run("creates a regular account", func(t *testing.T) {
		user, err := as.Register(context.Background(), "alice", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, RoleUser, user.Role)
		assert.NotEmpty(t, user.ID)
		assert.Empty(t, user.HashedPassword)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		_, err := as.Register(context.Background(), "alice", "anotherpass")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

// TestLogin ensures credential verification and token issuance.
func TestLogin(t *testing.T) {
	as, tokens := newTestAuthService(testAuthConfig(), NewMockClocker())
	_, err := as.Register(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)

	t.Run("valid credentials yield a usable token", func(t *testing.T) {
		token, user, err := as.Login(context.Background(), "alice", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.HashedPassword)

		claims, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, RoleUser, claims.Role)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, _, err := as.Login(context.Background(), "alice", "wrongpass")
		assert.ErrorIs(t, err, ErrWrongCredentials)
	})

	t.Run("unknown username looks like wrong credentials", func(t *testing.T) {
		_, _, err := as.Login(context.Background(), "nobody", "s3cretpass")
		assert.ErrorIs(t, err, ErrWrongCredentials)
	})
}

// TestSeedAdminAccount ensures the boot-time admin provisioning.
func TestSeedAdminAccount(t *testing.T) {
	t.Run("creates the configured admin once", func(t *testing.T) {
		config := testAuthConfig()
		config.Auth.AdminUsername = "root"
		config.Auth.AdminPassword = "rootpass99"
		as, _ := newTestAuthService(config, NewMockClocker())

		require.NoError(t, as.SeedAdminAccount(context.Background()))
		// a second boot must not fail on the existing account.
		require.NoError(t, as.SeedAdminAccount(context.Background()))

		token, user, err := as.Login(context.Background(), "root", "rootpass99")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, RoleAdmin, user.Role)
	})

	t.Run("does nothing without configured credentials", func(t *testing.T) {
		as, _ := newTestAuthService(testAuthConfig(), NewMockClocker())
		require.NoError(t, as.SeedAdminAccount(context.Background()))
		_, _, err := as.Login(context.Background(), "root", "rootpass99")
		assert.ErrorIs(t, err, ErrWrongCredentials)
	})
}
