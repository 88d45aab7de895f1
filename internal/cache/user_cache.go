// Package cache holds read-through caches in front of the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/user"
)

// UserTTL is how long a cached user stays valid.
const UserTTL = 30 * time.Minute

// UserCache caches user records by id. Failures are logged and reported
// as misses; the database stays the source of truth.
type UserCache interface {
	Get(ctx context.Context, id int64) (*user.User, bool)
	Set(ctx context.Context, u *user.User)
	Delete(ctx context.Context, id int64)
}

type userEntry struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RedisUserCache stores users as JSON under user:{id}.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisUserCache creates a RedisUserCache.
func NewRedisUserCache(client *redis.Client, logger *zap.Logger) *RedisUserCache {
	return &RedisUserCache{client: client, ttl: UserTTL, logger: logger}
}

func userKey(id int64) string { return fmt.Sprintf("user:%d", id) }

// Get returns the cached user, if any.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*user.User, bool) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("user cache read failed", zap.Int64("user_id", id), zap.Error(err))
		}
		return nil, false
	}

	var e userEntry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("corrupt user cache entry", zap.Int64("user_id", id), zap.Error(err))
		c.Delete(ctx, id)
		return nil, false
	}
	return user.Reconstruct(e.ID, e.Username, e.PasswordHash, e.Name, e.Email, e.Phone, e.CreatedAt, e.UpdatedAt), true
}

// Set stores u for UserTTL.
func (c *RedisUserCache) Set(ctx context.Context, u *user.User) {
	data, err := json.Marshal(userEntry{
		ID:           u.ID(),
		Username:     u.Username(),
		PasswordHash: u.PasswordHash(),
		Name:         u.Name(),
		Email:        u.Email(),
		Phone:        u.Phone(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	})
	if err != nil {
		c.logger.Warn("failed to encode user for cache", zap.Int64("user_id", u.ID()), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, userKey(u.ID()), data, c.ttl).Err(); err != nil {
		c.logger.Warn("user cache write failed", zap.Int64("user_id", u.ID()), zap.Error(err))
	}
}

// Delete evicts a user.
func (c *RedisUserCache) Delete(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, userKey(id)).Err(); err != nil {
		c.logger.Warn("user cache evict failed", zap.Int64("user_id", id), zap.Error(err))
	}
}

// NopUserCache is used when no Redis address is configured.
type NopUserCache struct{}

func (NopUserCache) Get(context.Context, int64) (*user.User, bool) { return nil, false }
func (NopUserCache) Set(context.Context, *user.User)               {}
func (NopUserCache) Delete(context.Context, int64)                 {}
