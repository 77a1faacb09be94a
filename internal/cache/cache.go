// Package cache keeps a short-lived copy of the user fields the identity
// resolver needs, so a valid token does not hit the user table on every
// request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/inventory_system/pkg/metrics"
)

const DefaultTTL = 5 * time.Minute

// User holds only what the store contributes to a principal. The role is
// taken from the token.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a cache on top of rdb. A nil client gives a cache that always
// misses and never stores.
func New(rdb *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &UserCache{rdb: rdb, ttl: ttl}
}

// Connect builds a client for addr; an empty addr disables caching.
func Connect(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

func key(username string) string {
	return "inventory:user:" + username
}

// Get reports a hit with ok=true. A miss is not an error.
func (c *UserCache) Get(ctx context.Context, username string) (User, bool, error) {
	if c == nil || c.rdb == nil {
		return User{}, false, nil
	}

	val, err := c.rdb.Get(ctx, key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return User{}, false, nil
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return User{}, false, err
	}

	var u User
	if err := json.Unmarshal(val, &u); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return User{}, false, err
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return u, true, nil
}

func (c *UserCache) Set(ctx context.Context, u User) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(u.Username), data, c.ttl).Err()
}

func (c *UserCache) Delete(ctx context.Context, username string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, key(username)).Err()
}

func (c *UserCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
