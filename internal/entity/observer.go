package entity

import (
	"context"
	"time"

	"github.com/lightgame/panel/internal/notify"
)

type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is the outcome of one call to the game API.
type Event struct {
	Entity  string
	Op      Op
	ID      int
	Status  int
	Err     error
	Elapsed time.Duration
}

// Observer is told about every API call a manager makes.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// Observers fans one event out to several observers.
type Observers []Observer

func (obs Observers) Observe(ctx context.Context, ev Event) {
	for _, o := range obs {
		o.Observe(ctx, ev)
	}
}

type discard struct{}

func (discard) Successf(string, string) notify.Notification { return notify.Notification{} }
func (discard) Failure(string, string) notify.Notification  { return notify.Notification{} }
