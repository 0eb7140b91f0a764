package hotreload

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type menu struct {
	Title string `yaml:"title"`
}

func TestReloadCallsHandlersOnlyOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: one\n"), 0o644))

	r, err := NewReloader(nil, nil)
	require.NoError(t, err)
	defer r.Stop()

	var got []string
	require.NoError(t, r.Watch(path, DecodeHandler(func(m menu) error {
		got = append(got, m.Title)
		return nil
	})))

	abs, _ := filepath.Abs(path)
	require.NoError(t, r.Reload(context.Background(), abs))
	assert.Empty(t, got)

	require.NoError(t, os.WriteFile(path, []byte("title: two\n"), 0o644))
	require.NoError(t, r.Reload(context.Background(), abs))
	assert.Equal(t, []string{"two"}, got)
}

func TestBadContentKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: one\n"), 0o644))
	r, err := NewReloader(nil, nil)
	require.NoError(t, err)
	defer r.Stop()

	calls := 0
	require.NoError(t, r.Watch(path, DecodeHandler(func(menu) error { calls++; return nil })))
	require.NoError(t, os.WriteFile(path, []byte("title: [unterminated\n"), 0o644))
	abs, _ := filepath.Abs(path)
	assert.Error(t, r.Reload(context.Background(), abs))
	assert.Zero(t, calls)
}

func TestWatchLoopPicksUpWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: one\n"), 0o644))
	r, err := NewReloader(&Config{DebounceTime: 10 * time.Millisecond}, nil)
	require.NoError(t, err)
	defer r.Stop()

	var mu sync.Mutex
	var last string
	require.NoError(t, r.Watch(path, DecodeHandler(func(m menu) error {
		mu.Lock()
		last = m.Title
		mu.Unlock()
		return nil
	})))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Start(ctx))
	require.Error(t, r.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("title: three\n"), 0o644))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last == "three"
	}, 2*time.Second, 10*time.Millisecond)
}
