package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshStore keeps the jti of every live refresh token in Redis, plus a
// per-user set of jtis so all of a user's tokens can be revoked at once.
// A refresh token is only honored while its jti is still present here.
type RefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshStore(rdb *redis.Client, ttl time.Duration) *RefreshStore {
	return &RefreshStore{rdb: rdb, ttl: ttl}
}

func key(jti string) string        { return fmt.Sprintf("auth:refresh:%s", jti) }
func userSetKey(uid string) string { return fmt.Sprintf("auth:user_refresh:%s", uid) }

func (s *RefreshStore) Save(ctx context.Context, jti, userID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(jti), userID, s.ttl)
	pipe.SAdd(ctx, userSetKey(userID), jti)
	pipe.Expire(ctx, userSetKey(userID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Valid returns the owning user id, or an error when the jti is unknown.
func (s *RefreshStore) Valid(ctx context.Context, jti string) (string, error) {
	return s.rdb.Get(ctx, key(jti)).Result()
}

// Rotate atomically retires the old jti and registers the new one.
func (s *RefreshStore) Rotate(ctx context.Context, oldJti, newJti, userID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(oldJti))
	pipe.SRem(ctx, userSetKey(userID), oldJti)
	pipe.Set(ctx, key(newJti), userID, s.ttl)
	pipe.SAdd(ctx, userSetKey(userID), newJti)
	pipe.Expire(ctx, userSetKey(userID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RefreshStore) Delete(ctx context.Context, jti string) error {
	uid, _ := s.rdb.Get(ctx, key(jti)).Result()
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(jti))
	if uid != "" {
		pipe.SRem(ctx, userSetKey(uid), jti)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForUser 撤销该用户的所有 refresh token。
func (s *RefreshStore) RevokeAllForUser(ctx context.Context, userID string) error {
	jtis, err := s.rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, jti := range jtis {
		pipe.Del(ctx, key(jti))
	}
	pipe.Del(ctx, userSetKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}
