// Package session provides session token stores: a Redis-backed store for
// deployments and an in-process store for tests and single-node runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
)

const (
	tokenKeyPrefix = "session:token:"
	userKeyPrefix  = "session:user:"
)

// RedisStore persists sessions under per-token keys with a TTL matching the
// session expiry, plus a per-user set so all of a user's sessions can be
// revoked at once.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}
	return &RedisStore{Client: client}, nil
}

type sessionRecord struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *RedisStore) Save(ctx context.Context, session *domainauth.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domainauth.ErrTTLInvalid
	}
	record := sessionRecord{
		Token:     string(session.Token),
		UserID:    string(session.UserID),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	for _, role := range session.Roles {
		record.Roles = append(record.Roles, string(role))
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+record.Token, payload, ttl)
	pipe.SAdd(ctx, userKeyPrefix+record.UserID, record.Token)
	pipe.ExpireGT(ctx, userKeyPrefix+record.UserID, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	payload, err := s.Client.Get(ctx, tokenKeyPrefix+string(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	session := &domainauth.Session{
		Token:     domainauth.Token(record.Token),
		UserID:    domainuser.ID(record.UserID),
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
	for _, role := range record.Roles {
		session.Roles = append(session.Roles, domainuser.Role(role))
	}
	return session, nil
}

func (s *RedisStore) Delete(ctx context.Context, token domainauth.Token) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	pipe := s.Client.TxPipeline()
	pipe.Del(ctx, tokenKeyPrefix+string(token))
	pipe.SRem(ctx, userKeyPrefix+string(session.UserID), string(token))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	userKey := userKeyPrefix + string(userID)
	tokens, err := s.Client.SMembers(ctx, userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	pipe := s.Client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, tokenKeyPrefix+token)
	}
	pipe.Del(ctx, userKey)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

var _ domainauth.SessionStore = (*RedisStore)(nil)
