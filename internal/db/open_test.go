package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	type probe struct {
		ID   int
		Name string
	}
	for _, dsn := range []string{":memory:", "sqlite:///" + filepath.ToSlash(filepath.Join(t.TempDir(), "x.db"))} {
		db, err := Open(dsn, true)
		require.NoError(t, err, dsn)
		require.NoError(t, db.AutoMigrate(&probe{}))
		require.NoError(t, db.Create(&probe{ID: 1, Name: "a"}).Error)
		var got probe
		require.NoError(t, db.First(&got, 1).Error)
		assert.Equal(t, "a", got.Name)
	}
}
