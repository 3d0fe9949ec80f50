package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

const defaultKeyPrefix = "mcpgate:session:"

// RedisStore keeps sessions in Redis so that relay calls can land on any replica.
// Idle sessions expire through the key TTL, refreshed on every Touch.
type RedisStore struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(s *RedisStore)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithTTL sets the idle expiry of session keys; zero keeps keys until deleted.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client rueidis.Client, options ...RedisOption) *RedisStore {
	ret := &RedisStore{client: client, prefix: defaultKeyPrefix}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// DialRedis connects to addresses and returns a store owning the client.
func DialRedis(addresses []string, options ...RedisOption) (*RedisStore, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  addresses,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis %v: %w", addresses, err)
	}
	return NewRedisStore(client, options...), nil
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

func (s *RedisStore) Put(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %v: %w", session.Token, err)
	}
	var cmd rueidis.Completed
	if s.ttl > 0 {
		cmd = s.client.B().Set().Key(s.key(session.Token)).Value(string(data)).Ex(s.ttl).Build()
	} else {
		cmd = s.client.B().Set().Key(s.key(session.Token)).Value(string(data)).Build()
	}
	if err = s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store session %v: %w", session.Token, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, bool, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(token)).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load session %v: %w", token, err)
	}
	ret := &Session{}
	if err = json.Unmarshal([]byte(value), ret); err != nil {
		return nil, false, fmt.Errorf("failed to decode session %v: %w", token, err)
	}
	return ret, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) (bool, error) {
	count, err := s.client.Do(ctx, s.client.B().Del().Key(s.key(token)).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to delete session %v: %w", token, err)
	}
	return count > 0, nil
}

// Touch rewrites LastSeen and refreshes the TTL; SET XX keeps a concurrently
// deleted session from being recreated.
func (s *RedisStore) Touch(ctx context.Context, token string, at time.Time) error {
	session, ok, err := s.Get(ctx, token)
	if err != nil || !ok {
		return err
	}
	session.LastSeen = at
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %v: %w", token, err)
	}
	var cmd rueidis.Completed
	if s.ttl > 0 {
		cmd = s.client.B().Set().Key(s.key(token)).Value(string(data)).Xx().Ex(s.ttl).Build()
	} else {
		cmd = s.client.B().Set().Key(s.key(token)).Value(string(data)).Xx().Build()
	}
	if err = s.client.Do(ctx, cmd).Error(); err != nil && !rueidis.IsRedisNil(err) {
		return fmt.Errorf("failed to touch session %v: %w", token, err)
	}
	return nil
}

// Len counts session keys with SCAN; intended for diagnostics only.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		entry, err := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(s.prefix+"*").Count(100).Build()).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("failed to scan sessions: %w", err)
		}
		count += len(entry.Elements)
		cursor = entry.Cursor
		if cursor == 0 {
			return count, nil
		}
	}
}

// Close releases the underlying client.
func (s *RedisStore) Close() {
	s.client.Close()
}
