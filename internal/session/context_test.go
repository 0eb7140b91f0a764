package session

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/apiclient"
)

type fakeResolver struct {
	users map[string]Identity
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (Identity, error) {
	f.calls++
	if f.err != nil {
		return Identity{}, f.err
	}
	id, ok := f.users[token]
	if !ok {
		return Identity{}, &apiclient.Error{Method: http.MethodGet, Path: "/api/user/me", Status: http.StatusUnauthorized}
	}
	return id, nil
}

var moderator = Identity{ID: 2, Name: "mod", Access: access.Moderator}

func TestLoginResolvesIdentity(t *testing.T) {
	store := NewMemoryStore("")
	sc := New(store, &fakeResolver{users: map[string]Identity{"t1": moderator}})

	_, ok := sc.Current()
	assert.False(t, ok)

	require.NoError(t, sc.Login(context.Background(), "t1"))
	id, ok := sc.Current()
	require.True(t, ok)
	assert.Equal(t, moderator, id)

	stored, _ := store.Load(context.Background())
	assert.Equal(t, "t1", stored)
}

func TestLoginWithBadTokenLeavesIdentityAbsent(t *testing.T) {
	res := &fakeResolver{users: map[string]Identity{}}
	sc := New(NewMemoryStore(""), res)
	err := sc.Login(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotAuthenticated)
	_, ok := sc.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, res.calls)
	assert.ErrorIs(t, sc.LastError(), ErrNotAuthenticated)
}

func TestUnreachableIsClassified(t *testing.T) {
	res := &fakeResolver{err: &apiclient.Error{Method: http.MethodGet, Path: "/api/user/me", Err: errors.New("connection refused")}}
	sc := New(NewMemoryStore("t1"), res)
	err := sc.Init(context.Background())
	require.ErrorIs(t, err, ErrUnreachable)
	_, ok := sc.Current()
	assert.False(t, ok)
	assert.Equal(t, "t1", sc.Token())

	res.err = &apiclient.Error{Method: http.MethodGet, Path: "/api/user/me", Status: http.StatusBadGateway}
	assert.ErrorIs(t, sc.Init(context.Background()), ErrUnreachable)
}

func TestInitWithoutTokenMakesNoCall(t *testing.T) {
	res := &fakeResolver{}
	sc := New(NewMemoryStore(""), res)
	require.NoError(t, sc.Init(context.Background()))
	assert.Zero(t, res.calls)
}

func TestLogoutClearsEverything(t *testing.T) {
	store := NewMemoryStore("")
	res := &fakeResolver{users: map[string]Identity{"t1": moderator}}
	sc := New(store, res)
	require.NoError(t, sc.Login(context.Background(), "t1"))
	calls := res.calls

	require.NoError(t, sc.Logout(context.Background()))
	_, ok := sc.Current()
	assert.False(t, ok)
	assert.Empty(t, sc.Token())
	assert.Equal(t, calls, res.calls)
	stored, _ := store.Load(context.Background())
	assert.Empty(t, stored)
}

func TestPermits(t *testing.T) {
	sc := New(NewMemoryStore(""), &fakeResolver{users: map[string]Identity{"t1": moderator}})
	assert.False(t, sc.Permits(access.Player))

	require.NoError(t, sc.Login(context.Background(), "t1"))
	assert.True(t, sc.Permits(access.Player))
	assert.True(t, sc.Permits(access.Moderator))
	assert.False(t, sc.Permits(access.Admin))
	assert.False(t, sc.Permits(access.Owner))
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs := FileStore{Path: filepath.Join(t.TempDir(), "nested", "token")}
	ctx := context.Background()

	tok, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, fs.Save(ctx, "abc"))
	tok, err = fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	info, err := os.Stat(fs.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, fs.Clear(ctx))
	require.NoError(t, fs.Clear(ctx))
	tok, _ = fs.Load(ctx)
	assert.Empty(t, tok)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("PANEL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PANEL_TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	cli := redis.NewClient(opt)
	defer cli.Close()

	ctx := context.Background()
	rs := NewRedisStore(cli, "panel:test:", time.Now().Format("150405.000000"), time.Minute)
	defer rs.Clear(ctx)

	tok, err := rs.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
	require.NoError(t, rs.Save(ctx, "xyz"))
	tok, err = rs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)
	require.NoError(t, rs.Clear(ctx))
	tok, _ = rs.Load(ctx)
	assert.Empty(t, tok)
}
