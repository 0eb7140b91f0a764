package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/access"
)

func TestSignVerify(t *testing.T) {
	m := NewManager("s3cret")
	tok, err := m.Sign(7, "mod", access.Moderator, time.Hour)
	require.NoError(t, err)

	c, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Sub)
	assert.Equal(t, "mod", c.Name)
	assert.Equal(t, access.Moderator, c.Access)

	_, err = NewManager("other").Verify(tok)
	assert.ErrorIs(t, err, ErrSignature)
	_, err = m.Verify("a.b")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExpired(t *testing.T) {
	m := NewManager("s3cret")
	start := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return start }
	tok, err := m.Sign(1, "a", access.Player, time.Minute)
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)
}
