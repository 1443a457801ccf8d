package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/martlaane/organizer-backend/config"
)

var redisClient *redis.Client

var ErrSessionNotFound = errors.New("session not found or expired")

// InitRedis connects the shared redis client used for the session store
func InitRedis(cfg *config.Config) error {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Println("✅ Redis connection established")
	return nil
}

func refreshKey(userID uint) string {
	return fmt.Sprintf("session:refresh:%d", userID)
}

// StoreRefreshToken whitelists the refresh token for a user. A new login
// replaces the previous session.
func StoreRefreshToken(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	return redisClient.Set(ctx, refreshKey(userID), token, ttl).Err()
}

// ValidateRefreshToken checks the presented token against the stored session.
func ValidateRefreshToken(ctx context.Context, userID uint, token string) error {
	stored, err := redisClient.Get(ctx, refreshKey(userID)).Result()
	if err == redis.Nil {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}
	if stored != token {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteRefreshToken ends the user's session (logout)
func DeleteRefreshToken(ctx context.Context, userID uint) error {
	return redisClient.Del(ctx, refreshKey(userID)).Err()
}
