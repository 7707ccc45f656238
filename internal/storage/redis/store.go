package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/caltrack/internal/storage"
)

const defaultTimeout = 5 * time.Second

// Store keeps every item as a plain Redis string under its own key.
type Store struct {
	rdb     *goredis.Client
	addr    string
	timeout time.Duration
}

// IsConnString reports whether s looks like a Redis URL
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://")
}

// New creates a Store from a redis:// or rediss:// URL
func New(redisURL string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Store{
		rdb:     goredis.NewClient(opts),
		addr:    opts.Addr,
		timeout: defaultTimeout,
	}, nil
}

// NewWithClient wraps an existing client
func NewWithClient(rdb *goredis.Client) *Store {
	return &Store{
		rdb:     rdb,
		addr:    rdb.Options().Addr,
		timeout: defaultTimeout,
	}
}

// HasEmbeddedPassword reports whether a redis URL carries a password
func HasEmbeddedPassword(redisURL string) bool {
	u, err := url.Parse(redisURL)
	if err != nil || u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) Init() error {
	return s.Load()
}

func (s *Store) Load() error {
	if s.rdb == nil {
		return storage.ErrNotLoaded
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}
	return nil
}

func (s *Store) GetItem(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	v, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) SetItem(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) RemoveItem(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(prefix string) ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var keys []string
	iter := s.rdb.Scan(ctx, 0, escapeGlob(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if k := iter.Val(); strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	// SCAN may return a key more than once
	sort.Strings(keys)
	out := keys[:0]
	for i, k := range keys {
		if i == 0 || k != keys[i-1] {
			out = append(out, k)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *Store) GetConfigPath() string {
	return "redis://" + s.addr
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
