package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/clock"
	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/notify"
	"github.com/lightgame/panel/internal/session"
)

// Workspace is the per-browser root of the panel: its session, its pages and
// its notifications. Callers hold Lock while operating on it.
type Workspace struct {
	ID      string
	Session *session.Context
	Notes   *notify.Center

	mu       sync.Mutex
	pages    map[string]Page
	mounted  string
	lastSeen time.Time
	login    *form.Form[apiclient.Credentials]
}

func (ws *Workspace) Lock()   { ws.mu.Lock() }
func (ws *Workspace) Unlock() { ws.mu.Unlock() }

// Mounted is the path of the page currently on screen.
func (ws *Workspace) Mounted() string { return ws.mounted }

// Mount returns the page for rt, activating it when the workspace navigates to
// it from somewhere else. Re-rendering the mounted page does not activate it
// again. An activation failure is part of the page state, not an error here.
func (ws *Workspace) Mount(ctx context.Context, rt Route) (Page, error) {
	p, err := ws.page(rt)
	if err != nil {
		return nil, err
	}
	if ws.mounted != rt.Path {
		ws.mounted = rt.Path
		if err := p.Activate(ctx); err != nil {
			slog.Default().Debug("page activation failed", "path", rt.Path, "err", err)
		}
	}
	return p, nil
}

// Page returns rt's page without mounting it.
func (ws *Workspace) Page(rt Route) (Page, error) { return ws.page(rt) }

func (ws *Workspace) page(rt Route) (Page, error) {
	if p, ok := ws.pages[rt.Path]; ok {
		return p, nil
	}
	p, err := rt.New(ws)
	if err != nil {
		return nil, fmt.Errorf("shell: build page %s: %w", rt.Path, err)
	}
	ws.pages[rt.Path] = p
	return p, nil
}

// Unmount forgets the mounted page, so the next visit activates again.
func (ws *Workspace) Unmount() { ws.mounted = "" }

// Reset drops every page. Used on login and logout so no state leaks across users.
func (ws *Workspace) Reset() {
	ws.pages = map[string]Page{}
	ws.mounted = ""
}

// StoreFactory returns the token slot of one workspace.
type StoreFactory func(workspaceID string) session.TokenStore

// Workspaces is the registry of live workspaces.
type Workspaces struct {
	stores   StoreFactory
	resolver session.IdentityResolver
	clock    clock.Clock
	idle     time.Duration
	log      *slog.Logger

	mu  sync.Mutex
	all map[string]*Workspace
}

func NewWorkspaces(stores StoreFactory, resolver session.IdentityResolver, c clock.Clock, idle time.Duration, log *slog.Logger) *Workspaces {
	if c == nil {
		c = clock.Real()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Workspaces{stores: stores, resolver: resolver, clock: c, idle: idle, log: log, all: map[string]*Workspace{}}
}

// Get returns the workspace for id, or creates one under a new id when id is
// unknown. A recreated workspace keeps the id so a token in a shared store
// (Redis) survives a panel restart; the session is initialized from it.
func (w *Workspaces) Get(ctx context.Context, id string) (*Workspace, bool) {
	w.mu.Lock()
	now := w.clock.Now()
	if ws, ok := w.all[id]; ok && id != "" {
		ws.lastSeen = now
		w.mu.Unlock()
		return ws, false
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	ws := &Workspace{
		ID:       id,
		Session:  session.New(w.stores(id), w.resolver, session.WithLogger(w.log)),
		Notes:    notify.NewCenter(w.clock, notify.DefaultTTL, 5),
		pages:    map[string]Page{},
		lastSeen: now,
	}
	// held until the session is initialized so concurrent requests wait for it
	ws.mu.Lock()
	w.all[id] = ws
	w.mu.Unlock()

	if err := ws.Session.Init(ctx); err != nil {
		w.log.Info("workspace session not restored", "workspace", id, "err", err)
	}
	ws.mu.Unlock()
	return ws, true
}

// Sweep drops workspaces idle for longer than the configured idle time.
func (w *Workspaces) Sweep() int {
	if w.idle <= 0 {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	cutoff := w.clock.Now().Add(-w.idle)
	n := 0
	for id, ws := range w.all {
		if ws.lastSeen.Before(cutoff) {
			delete(w.all, id)
			n++
		}
	}
	return n
}

func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.all)
}
