// Package entity is the generic CRUD engine of the panel. A Manager owns the
// loaded collection of one record type, the open dialog and its form, and the
// list view state, and patches the collection after each successful call.
package entity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/clock"
	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/listview"
	"github.com/lightgame/panel/internal/notify"
	"github.com/lightgame/panel/internal/schema"
)

var (
	ErrBusy              = errors.New("entity: a request is already in flight")
	ErrNoAction          = errors.New("entity: no dialog is open")
	ErrInvalidTransition = errors.New("entity: action not valid in current state")
	ErrNotFound          = errors.New("entity: record not found")
	ErrReadOnly          = errors.New("entity: collection is read-only")
)

// Record is anything with a stable integer id.
type Record interface {
	RecordID() int
}

// Remote is the CRUD contract of the game API for one collection.
// *apiclient.Resource satisfies it.
type Remote[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft T) error
	Update(ctx context.Context, id int, draft T) error
	Delete(ctx context.Context, id int) error
}

// Notifier receives the user-facing outcome of mutations.
type Notifier interface {
	Successf(title, description string) notify.Notification
	Failure(title, description string) notify.Notification
}

// Config describes one managed collection.
type Config[T Record] struct {
	// Name is the display name, e.g. "Faction".
	Name         string
	Schema       *schema.Schema
	Columns      []listview.Column[T]
	FilterColumn string
	// Defaults builds a new draft; nil uses the schema defaults.
	Defaults func() T
	// ReadOnly collections can be listed but never mutated.
	ReadOnly bool
}

// Fault replaces the table when the collection could not be read.
type Fault struct {
	Code    string
	Details string
}

type options struct {
	notifier Notifier
	observer Observer
	log      *slog.Logger
	clock    clock.Clock
}

// Option configures a Manager.
type Option func(*options)

// WithNotifier sets where mutation outcomes are reported.
func WithNotifier(n Notifier) Option { return func(o *options) { o.notifier = n } }

// WithObserver sets the hook that sees every API call.
func WithObserver(ob Observer) Option { return func(o *options) { o.observer = ob } }

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithClock sets the clock behind submit timing.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

// Manager owns the collection, open dialog and form of one entity page.
type Manager[T Record] struct {
	cfg   Config[T]
	api   Remote[T]
	opts  options
	form  *form.Form[T]
	table *listview.Table[T]

	mu      sync.Mutex
	items   []T
	loading bool
	loaded  bool
	fault   *Fault
	action  Action
	busy    bool
}

// NewManager builds an unloaded manager; call Activate to fetch.
func NewManager[T Record](cfg Config[T], api Remote[T], opts ...Option) (*Manager[T], error) {
	if cfg.Name == "" || cfg.Schema == nil || api == nil {
		return nil, fmt.Errorf("entity: Name, Schema and a remote are required")
	}
	o := options{clock: clock.Real()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	if o.notifier == nil {
		o.notifier = discard{}
	}
	if o.observer == nil {
		o.observer = ObserverFunc(func(context.Context, Event) {})
	}
	table, err := listview.New(listview.Config[T]{
		Columns:      cfg.Columns,
		Key:          func(r T) int { return r.RecordID() },
		FilterColumn: cfg.FilterColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", cfg.Name, err)
	}
	return &Manager[T]{
		cfg:   cfg,
		api:   api,
		opts:  o,
		form:  form.New[T](cfg.Schema, form.WithClock(o.clock)),
		table: table,
	}, nil
}

// Name is the display name of the collection.
func (m *Manager[T]) Name() string { return m.cfg.Name }

// Table exposes the list view state. Pair it with Items for paging calls.
func (m *Manager[T]) Table() *listview.Table[T] { return m.table }

// Items returns a copy of the loaded collection.
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Action returns the open dialog.
func (m *Manager[T]) Action() Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.action
}

// Activate reads the whole collection once. A failure puts the manager in the
// fault state until the next activation; there is no retry.
func (m *Manager[T]) Activate(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.fault = nil
	m.action = Idle()
	m.mu.Unlock()

	start := m.opts.clock.Now()
	items, err := m.api.List(ctx)
	m.observe(ctx, OpList, 0, start, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.items = nil
		m.loaded = false
		m.fault = faultOf(err)
		m.opts.log.Warn("entity: list failed", "entity", m.cfg.Name, "err", err)
		return fmt.Errorf("entity %s: list: %w", m.cfg.Name, err)
	}
	m.items = items
	m.loaded = true
	return nil
}

func faultOf(err error) *Fault {
	var ae *apiclient.Error
	if errors.As(err, &ae) {
		details := ae.Message
		if details == "" {
			details = ae.Error()
		}
		return &Fault{Code: ae.Code(), Details: details}
	}
	return &Fault{Code: "ERR_UNKNOWN", Details: err.Error()}
}

func (m *Manager[T]) indexOf(id int) int {
	return slices.IndexFunc(m.items, func(r T) bool { return r.RecordID() == id })
}

// open closes the current dialog, discarding whatever dialog was open before.
func (m *Manager[T]) open() error {
	if m.busy {
		return ErrBusy
	}
	if m.cfg.ReadOnly {
		return ErrReadOnly
	}
	if !m.loaded {
		return fmt.Errorf("%w: %s not loaded", ErrInvalidTransition, m.cfg.Name)
	}
	m.action = Idle()
	return nil
}

// BeginCreate opens the create dialog with a fresh default draft.
func (m *Manager[T]) BeginCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.open(); err != nil {
		return err
	}
	if m.cfg.Defaults != nil {
		if err := m.form.Reset(m.cfg.Defaults()); err != nil {
			return err
		}
	} else {
		m.form.ResetDefaults()
	}
	m.action = Creating()
	return nil
}

// BeginEdit opens the edit dialog filled with the record's current values.
func (m *Manager[T]) BeginEdit(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.open(); err != nil {
		return err
	}
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, m.cfg.Name, id)
	}
	if err := m.form.Load(m.items[i]); err != nil {
		return err
	}
	m.action = Editing(id)
	return nil
}

// BeginDelete opens the delete confirmation. Nothing is sent until ConfirmDelete.
func (m *Manager[T]) BeginDelete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.open(); err != nil {
		return err
	}
	if m.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, m.cfg.Name, id)
	}
	m.action = Deleting(id)
	return nil
}

// Cancel closes any dialog. A request already in flight still completes and
// patches the collection.
func (m *Manager[T]) Cancel() {
	m.mu.Lock()
	m.action = Idle()
	m.mu.Unlock()
}

// closeIf returns to Idle unless the dialog changed while the call was running.
func (m *Manager[T]) closeIf(a Action) {
	if m.action == a {
		m.action = Idle()
	}
}

// Submit validates the submitted values and sends a create or update. A
// form.ErrInvalid error means the messages are on the form; any other error
// was also pushed as a notification. The dialog stays open on error.
func (m *Manager[T]) Submit(ctx context.Context, values url.Values) error {
	m.mu.Lock()
	a := m.action
	switch {
	case m.busy:
		m.mu.Unlock()
		return ErrBusy
	case a.Kind() == KindIdle:
		m.mu.Unlock()
		return ErrNoAction
	case a.Kind() == KindDeleting:
		m.mu.Unlock()
		return fmt.Errorf("%w: submit while %s", ErrInvalidTransition, a)
	}
	m.busy = true
	m.mu.Unlock()

	err := m.form.Submit(ctx, values, func(ctx context.Context, draft T) error {
		start := m.opts.clock.Now()
		var err error
		op := OpCreate
		if id, ok := a.Target(); ok {
			op = OpUpdate
			err = m.api.Update(ctx, id, draft)
		} else {
			err = m.api.Create(ctx, draft)
		}
		m.observe(ctx, op, draft.RecordID(), start, err)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.patch(a, draft)
		m.mu.Unlock()
		return nil
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	verb := "created"
	if a.Kind() == KindEditing {
		verb = "updated"
	}
	switch {
	case err == nil:
		m.closeIf(a)
		m.opts.notifier.Successf(m.cfg.Name+" "+verb, "")
		return nil
	case errors.Is(err, form.ErrInvalid):
		return err
	default:
		m.opts.notifier.Failure(fmt.Sprintf("%s could not be %s", m.cfg.Name, verb), describe(err))
		return err
	}
}

// patch applies a successful create or update without re-reading the collection.
func (m *Manager[T]) patch(a Action, draft T) {
	if id, ok := a.Target(); ok {
		if i := m.indexOf(id); i >= 0 {
			m.items[i] = draft
		}
		return
	}
	m.items = append(m.items, draft)
}

// ConfirmDelete sends the delete for the record of the open Deleting dialog.
func (m *Manager[T]) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	a := m.action
	switch {
	case m.busy:
		m.mu.Unlock()
		return ErrBusy
	case a.Kind() == KindIdle:
		m.mu.Unlock()
		return ErrNoAction
	case a.Kind() != KindDeleting:
		m.mu.Unlock()
		return fmt.Errorf("%w: delete while %s", ErrInvalidTransition, a)
	}
	id, _ := a.Target()
	m.busy = true
	m.mu.Unlock()

	start := m.opts.clock.Now()
	err := m.api.Delete(ctx, id)
	m.observe(ctx, OpDelete, id, start, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	if err != nil {
		m.opts.notifier.Failure(m.cfg.Name+" could not be deleted", describe(err))
		return err
	}
	if i := m.indexOf(id); i >= 0 {
		m.items = slices.Delete(m.items, i, i+1)
	}
	if m.table.IsSelected(id) {
		m.table.ToggleRow(id)
	}
	m.closeIf(a)
	m.opts.notifier.Successf(m.cfg.Name+" deleted", "")
	return nil
}

func describe(err error) string {
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	var ae *apiclient.Error
	if errors.As(err, &ae) {
		return ae.Code()
	}
	return strings.TrimPrefix(err.Error(), "entity: ")
}

func (m *Manager[T]) observe(ctx context.Context, op Op, id int, start time.Time, err error) {
	m.opts.observer.Observe(ctx, Event{
		Entity:  m.cfg.Name,
		Op:      op,
		ID:      id,
		Status:  apiclient.StatusOf(err),
		Err:     err,
		Elapsed: m.opts.clock.Now().Sub(start),
	})
}
