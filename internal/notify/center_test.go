package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/clock"
)

func TestPushExpireDismiss(t *testing.T) {
	fc := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	c := NewCenter(fc, 5*time.Second, 0)

	a := c.Successf("Saved", "Faction 3 created")
	fc.Advance(3 * time.Second)
	b := c.Failure("Request failed", "HTTP_500")
	require.NotEqual(t, a.ID, b.ID)
	assert.Len(t, c.Active(), 2)

	fc.Advance(2 * time.Second)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)
	assert.Equal(t, Error, active[0].Kind)

	assert.True(t, c.Dismiss(b.ID))
	assert.False(t, c.Dismiss(b.ID))
	assert.Empty(t, c.Active())
}

func TestCapacity(t *testing.T) {
	c := NewCenter(clock.NewFake(time.Unix(0, 0)), time.Minute, 2)
	c.Push(Info, "1", "")
	c.Push(Info, "2", "")
	c.Push(Info, "3", "")
	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "2", active[0].Title)
	assert.Equal(t, "3", active[1].Title)
}
