package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/session"
	goredis "github.com/redis/go-redis/v9"
)

type sessionStoreImpl struct {
	client *goredis.Client
}

func NewSessionStore(client *goredis.Client) session.Store {
	return &sessionStoreImpl{client: client}
}

// Set implements session.Store
func (s *sessionStoreImpl) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get implements session.Store
func (s *sessionStoreImpl) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", session.ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Delete implements session.Store
func (s *sessionStoreImpl) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

// TTL implements session.Store
func (s *sessionStoreImpl) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ttl %s: %w", key, err)
	}
	// redis reports -2 for a missing key
	if ttl == -2 {
		return 0, session.ErrNotFound
	}
	return ttl, nil
}

const maxUpdateRetries = 4

// Update implements session.Store with WATCH/MULTI, retrying when the key
// changes between the read and the write
func (s *sessionStoreImpl) Update(ctx context.Context, key string, fn session.UpdateFunc) error {
	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
			current, err := tx.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, goredis.Nil) {
					return session.ErrNotFound
				}
				return fmt.Errorf("get %s: %w", key, err)
			}

			next, op, err := fn(current)
			if err != nil || op == session.Keep {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
				switch op {
				case session.Replace:
					pipe.SetArgs(ctx, key, next, goredis.SetArgs{KeepTTL: true})
				case session.Remove:
					pipe.Del(ctx, key)
				}
				return nil
			})
			return err
		}, key)

		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return session.ErrContended
}

// NewClient connects to redis and pings it
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
