package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var ErrInvalidToken = errors.New("invalid refresh token")

// Store keeps opaque refresh tokens in redis: rt:<token> -> user id with a
// TTL. Token validity is owned entirely by redis; the application holds no
// session state of its own.
type Store struct {
	rdb        *goredis.Client
	prefix     string
	tokenBytes int
}

func NewStore(rdb *goredis.Client) *Store {
	return &Store{
		rdb:        rdb,
		prefix:     "rt:",
		tokenBytes: 32,
	}
}

func (s *Store) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token, err := s.newOpaqueToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, s.prefix+token, userID, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	userID, err := s.rdb.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return userID, nil
}

// Rotate invalidates the old token and issues a fresh one for the same user.
// A token can be rotated exactly once; a second use fails.
func (s *Store) Rotate(ctx context.Context, oldToken string, ttl time.Duration) (string, string, error) {
	if oldToken == "" {
		return "", "", ErrInvalidToken
	}

	userID, err := s.rdb.GetDel(ctx, s.prefix+oldToken).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}

	newToken, err := s.newOpaqueToken()
	if err != nil {
		return "", "", err
	}
	if err := s.rdb.Set(ctx, s.prefix+newToken, userID, ttl).Err(); err != nil {
		return "", "", err
	}
	return newToken, userID, nil
}

// Revoke is idempotent; revoking an unknown token is a no-op.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, s.prefix+token).Err()
}

func (s *Store) newOpaqueToken() (string, error) {
	b := make([]byte, s.tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
