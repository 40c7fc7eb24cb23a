package users

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a redis-backed read-through cache for user records, sitting in
// front of the repository on the authentication hot path. Concurrent misses
// for the same id collapse into a single repository load. A nil client
// degrades to direct loads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Fetch loads a user by id, consulting redis before falling back to loader.
// Redis failures degrade to direct loads; only loader errors propagate.
func (c *Cache) Fetch(ctx context.Context, id uuid.UUID, loader func(context.Context) (*User, error)) (*User, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	key := cacheKey(id)
	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if u, err := unmarshalUser(payload); err == nil {
			return u, nil
		}
	}
	value, err, _ := c.group.Do(key, func() (any, error) {
		user, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := marshalUser(user); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*User), nil
}

// Invalidate drops the cached record for id. Called on every save/delete.
func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKey(id)).Err()
}

func cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// storedUser mirrors User without the API projection's hidden fields, so
// the hash and reset token survive the redis round trip.
type storedUser struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	IsAdmin      bool      `json:"is_admin"`
	ResetToken   string    `json:"reset_token"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func marshalUser(u *User) ([]byte, error) {
	return json.Marshal(storedUser(*u))
}

func unmarshalUser(payload []byte) (*User, error) {
	var s storedUser
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	u := User(s)
	return &u, nil
}
