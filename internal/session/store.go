package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// TokenStore is the durable single slot holding the bearer token. "" means anonymous.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token for the lifetime of the process.
type MemoryStore struct {
	mu  sync.Mutex
	tok string
}

func NewMemoryStore(initial string) *MemoryStore { return &MemoryStore{tok: initial} }

func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok, nil
}

func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.tok = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(context.Context) error { return m.Save(context.Background(), "") }

// FileStore keeps the token in a single 0600 file, used by the CLI.
type FileStore struct {
	Path string
}

// DefaultTokenPath is ~/.config/lightpanel/token (or the OS equivalent).
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "lightpanel", "token")
}

func (f FileStore) Load(context.Context) (string, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (f FileStore) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

func (f FileStore) Clear(context.Context) error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RedisStore keeps one token per key, so many browser workspaces can share a Redis.
type RedisStore struct {
	cli *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStore stores under prefix+id. ttl <= 0 keeps the token until logout.
func NewRedisStore(cli *redis.Client, prefix, id string, ttl time.Duration) *RedisStore {
	return &RedisStore{cli: cli, key: prefix + id, ttl: ttl}
}

func (r *RedisStore) Key() string { return r.key }

func (r *RedisStore) Load(ctx context.Context) (string, error) {
	v, err := r.cli.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return v, nil
}

func (r *RedisStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return r.Clear(ctx)
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	return r.cli.Set(ctx, r.key, token, ttl).Err()
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.cli.Del(ctx, r.key).Err()
}
