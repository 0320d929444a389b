package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"ninernav/domain"
	"ninernav/internal/service/logger"
)

const keyPrefix = "session:"

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore keeps each session as a JSON document under "session:<id>".
// Every Save refreshes the TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) domain.SessionStore {
	return &redisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *redisSessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return &domain.Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(id, data), nil
}

func (s *redisSessionStore) Save(ctx context.Context, id string, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err()
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

// decode never fails: a document that cannot be read or that holds impossible values
// yields a sanitized session rather than an error.
func decode(id string, data []byte) *domain.Session {
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		logger.AccessLogger.Warn("Discarding unreadable session", zap.String("session_id", id), zap.Error(err))
		return &domain.Session{}
	}
	if sess.Sanitize() {
		logger.AccessLogger.Warn("Sanitized inconsistent session", zap.String("session_id", id))
	}
	return &sess
}
