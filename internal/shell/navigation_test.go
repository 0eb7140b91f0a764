package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/access"
)

func TestDefaultNavigation(t *testing.T) {
	n, err := LoadNavigation("")
	require.NoError(t, err)
	require.NotEmpty(t, n.Groups)

	var world NavItem
	for _, g := range n.Groups {
		for _, it := range g.Items {
			if it.Title == "World" {
				world = it
			}
		}
	}
	require.Len(t, world.Subs, 2)
	assert.Equal(t, access.Moderator, world.Required)
	assert.True(t, world.Expanded("/panel/areas"))
	assert.True(t, world.Expanded("/panel/items/"))
	assert.False(t, world.Expanded("/panel/factions"))
	assert.False(t, world.Expanded("/panel"))
}

func TestNavigationViewFiltersByAccess(t *testing.T) {
	n, err := LoadNavigation("")
	require.NoError(t, err)

	titles := func(secs []NavSection) []string {
		var out []string
		for _, s := range secs {
			for _, l := range s.Links {
				out = append(out, l.Title)
			}
		}
		return out
	}
	player := n.View("/panel", func(l access.Level) bool { return access.Player.Allows(l) })
	assert.Equal(t, []string{"Dashboard"}, titles(player))

	mod := n.View("/panel/areas", func(l access.Level) bool { return access.Moderator.Allows(l) })
	assert.Equal(t, []string{"Dashboard", "Factions", "World"}, titles(mod))
	world := mod[1].Links[1]
	assert.True(t, world.Expanded)
	assert.True(t, world.Subs[0].Active)

	admin := n.View("/panel", func(l access.Level) bool { return access.Admin.Allows(l) })
	assert.Contains(t, titles(admin), "Rooms")
}

func TestParseNavigationRejectsDeepNesting(t *testing.T) {
	_, err := ParseNavigation([]byte(`
groups:
  - title: A
    items:
      - title: B
        subs:
          - title: C
            subs:
              - title: D
`))
	assert.Error(t, err)

	n, err := ParseNavigation([]byte(`
groups:
  - title: A
    items:
      - title: B
        url: /b
        access: 3
`))
	require.NoError(t, err)
	assert.Equal(t, access.Admin, n.Groups[0].Items[0].Required)
}

func TestWatchNavigationSwapsMenu(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groups:\n  - title: One\n    items:\n      - title: A\n        url: /a\n"), 0o644))
	n, err := LoadNavigation(path)
	require.NoError(t, err)
	store := NewNavStore(n)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r, err := WatchNavigation(ctx, path, store, nil)
	require.NoError(t, err)
	defer r.Stop()

	require.NoError(t, os.WriteFile(path, []byte("groups:\n  - title: Two\n    items:\n      - title: B\n        url: /b\n"), 0o644))
	require.Eventually(t, func() bool {
		return store.Get().Groups[0].Title == "Two"
	}, 3*time.Second, 20*time.Millisecond)
}
