package chain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/entity"
)

func TestWriterChainsAcrossReopen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "audit", "panel.log")
	w, err := NewWriter(p)
	require.NoError(t, err)
	require.NoError(t, w.Log("create", "mod", "Faction#1", nil))
	require.NoError(t, w.Log("delete", "mod", "Faction#1", map[string]string{"status": "200"}))
	require.NoError(t, w.Close())

	w, err = NewWriter(p)
	require.NoError(t, err)
	require.NoError(t, w.Log("update", "root", "Area#3", nil))
	require.NoError(t, w.Close())

	n, err := Verify(p)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestVerifyDetectsTampering(t *testing.T) {
	p := filepath.Join(t.TempDir(), "panel.log")
	w, err := NewWriter(p)
	require.NoError(t, err)
	require.NoError(t, w.Log("create", "mod", "Faction#1", nil))
	require.NoError(t, w.Log("create", "mod", "Faction#2", nil))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, []byte(strings.Replace(string(b), "Faction#2", "Faction#9", 1)), 0o644))

	n, err := Verify(p)
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestObserverSkipsSuccessfulLists(t *testing.T) {
	p := filepath.Join(t.TempDir(), "panel.log")
	w, err := NewWriter(p)
	require.NoError(t, err)
	w.now = func() time.Time { return time.Unix(0, 0) }
	obs := w.Observer(func() string { return "mod" })
	ctx := context.Background()

	obs.Observe(ctx, entity.Event{Entity: "Faction", Op: entity.OpList, Status: 200})
	obs.Observe(ctx, entity.Event{Entity: "Faction", Op: entity.OpList, Err: errors.New("boom")})
	obs.Observe(ctx, entity.Event{Entity: "Faction", Op: entity.OpCreate, ID: 4, Status: 200})
	require.NoError(t, w.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"error":"boom"`)
	assert.Contains(t, lines[1], `"target":"Faction#4"`)
	assert.Contains(t, lines[1], `"actor":"mod"`)
}
