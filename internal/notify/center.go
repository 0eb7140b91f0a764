// Package notify keeps the transient, dismissible notifications shown in the
// corner of the panel.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lightgame/panel/internal/clock"
)

// DefaultTTL is how long a notification stays up unless dismissed.
const DefaultTTL = 5 * time.Second

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

type Notification struct {
	ID          string
	Kind        Kind
	Title       string
	Description string
	Created     time.Time
	Expires     time.Time
}

type Center struct {
	clock clock.Clock
	ttl   time.Duration
	max   int

	mu    sync.Mutex
	items []Notification
}

// NewCenter keeps at most limit notifications (oldest dropped first); limit <= 0 means 5.
func NewCenter(c clock.Clock, ttl time.Duration, limit int) *Center {
	if c == nil {
		c = clock.Real()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if limit <= 0 {
		limit = 5
	}
	return &Center{clock: c, ttl: ttl, max: limit}
}

func (c *Center) Push(kind Kind, title, description string) Notification {
	now := c.clock.Now()
	n := Notification{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: description,
		Created:     now,
		Expires:     now.Add(c.ttl),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
	if over := len(c.items) - c.max; over > 0 {
		c.items = append([]Notification(nil), c.items[over:]...)
	}
	return n
}

func (c *Center) Successf(title, description string) Notification {
	return c.Push(Success, title, description)
}

func (c *Center) Failure(title, description string) Notification {
	return c.Push(Error, title, description)
}

// Dismiss removes a notification; unknown ids are ignored.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active prunes expired notifications and returns the rest, oldest first.
func (c *Center) Active() []Notification {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	c.items = kept
	return append([]Notification(nil), kept...)
}
