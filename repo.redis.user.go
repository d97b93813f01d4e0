package main

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const HUsers string = "users"

type redisUserStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisUserStorage provides an instance of redis-based user storage.
// Accounts live in a single hash keyed by username which makes the
// uniqueness check a plain HSETNX.
func NewRedisUserStorage(logger *zap.Logger, client *redis.Client) UserStorage {
	return &redisUserStorage{
		logger: logger,
		client: client,
	}
}

// Add inserts a new user record. It fails when the username is already used.
func (rs *redisUserStorage) Add(ctx context.Context, user User) error {
	userBytes, err := json.Marshal(struct {
		User
		HashedPassword string `json:"hashedPassword"`
	}{User: user, HashedPassword: user.HashedPassword})
	if err != nil {
		return err
	}
	set, err := rs.client.HSetNX(ctx, HUsers, user.Username, userBytes).Result()
	if err != nil {
		return err
	}
	if !set {
		return ErrUsernameTaken
	}
	return nil
}

// GetByUsername retrieves a user record based on its unique username.
func (rs *redisUserStorage) GetByUsername(ctx context.Context, username string) (User, error) {
	var stored struct {
		User
		HashedPassword string `json:"hashedPassword"`
	}
	userJSONString, err := rs.client.HGet(ctx, HUsers, username).Result()
	if err == redis.Nil {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	if err = json.Unmarshal([]byte(userJSONString), &stored); err != nil {
		return User{}, err
	}
	user := stored.User
	user.HashedPassword = stored.HashedPassword
	return user, nil
}
