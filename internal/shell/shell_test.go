package shell

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/entity"
	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/gamedata"
	"github.com/lightgame/panel/internal/notify"
	"github.com/lightgame/panel/internal/session"
)

type resolver map[string]session.Identity

func (r resolver) Resolve(_ context.Context, token string) (session.Identity, error) {
	if token == "down" {
		return session.Identity{}, &apiclient.Error{Method: http.MethodGet, Path: "/api/user/me", Err: errors.New("connection refused")}
	}
	id, ok := r[token]
	if !ok {
		return session.Identity{}, &apiclient.Error{Status: http.StatusUnauthorized}
	}
	return id, nil
}

var users = resolver{
	"mod":   {ID: 1, Name: "mod", Access: access.Moderator},
	"admin": {ID: 2, Name: "root", Access: access.Admin},
}

type factions struct {
	rows  []gamedata.Faction
	lists int
}

func (f *factions) List(context.Context) ([]gamedata.Faction, error) {
	f.lists++
	return append([]gamedata.Faction(nil), f.rows...), nil
}
func (f *factions) Create(_ context.Context, d gamedata.Faction) error { return nil }
func (f *factions) Update(context.Context, int, gamedata.Faction) error { return nil }
func (f *factions) Delete(context.Context, int) error                   { return nil }

func newWorkspaces() *Workspaces {
	stores := map[string]*session.MemoryStore{}
	return NewWorkspaces(func(id string) session.TokenStore {
		if stores[id] == nil {
			stores[id] = session.NewMemoryStore("")
		}
		return stores[id]
	}, users, nil, 0, nil)
}

func factionRoute(remote *factions) Route {
	return EntityRoute("/panel/factions", "Factions", access.Moderator, func(ws *Workspace) (*entity.Manager[gamedata.Faction], error) {
		return entity.NewManager[gamedata.Faction](gamedata.FactionConfig(), remote, entity.WithNotifier(ws.Notes))
	})
}

func signedIn(t *testing.T, token string) *Workspace {
	t.Helper()
	ws, created := newWorkspaces().Get(context.Background(), "")
	require.True(t, created)
	require.NoError(t, ws.Session.Login(context.Background(), token))
	return ws
}

func TestGuard(t *testing.T) {
	modRoute := Route{Path: "/m", Required: access.Moderator}
	adminRoute := Route{Path: "/a", Required: access.Admin}

	ws := signedIn(t, "mod")
	assert.Equal(t, Allow, Guard(ws.Session, modRoute))
	assert.Equal(t, Restricted, Guard(ws.Session, adminRoute))
	assert.Equal(t, Allow, Guard(ws.Session, Route{Required: access.Player}))

	anon, _ := newWorkspaces().Get(context.Background(), "")
	assert.Equal(t, Restricted, Guard(anon.Session, modRoute))

	down, _ := newWorkspaces().Get(context.Background(), "")
	require.Error(t, down.Session.Login(context.Background(), "down"))
	assert.Equal(t, Unreachable, Guard(down.Session, modRoute))
}

func TestRouterResolve(t *testing.T) {
	r, err := NewRouter(factionRoute(&factions{}))
	require.NoError(t, err)
	rt, ok := r.Resolve("/panel/factions/")
	require.True(t, ok)
	assert.Equal(t, "Factions", rt.Title)
	_, ok = r.Resolve("/panel/nope")
	assert.False(t, ok)

	_, err = NewRouter(factionRoute(&factions{}), factionRoute(&factions{}))
	assert.Error(t, err)
}

func TestMountActivatesOnlyOnNavigation(t *testing.T) {
	remote := &factions{rows: []gamedata.Faction{{ID: 1, Name: "Alliance"}}}
	fr := factionRoute(remote)
	home := DashboardRoute("/panel", func() *Router { return nil })
	ws := signedIn(t, "mod")
	ctx := context.Background()

	_, err := ws.Mount(ctx, fr)
	require.NoError(t, err)
	_, err = ws.Mount(ctx, fr)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.lists)

	_, err = ws.Mount(ctx, home)
	require.NoError(t, err)
	_, err = ws.Mount(ctx, fr)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.lists)
}

func TestEntityPageActions(t *testing.T) {
	remote := &factions{rows: []gamedata.Faction{{ID: 1, Name: "Alliance"}, {ID: 2, Name: "Horde"}}}
	ws := signedIn(t, "mod")
	ctx := context.Background()
	p, err := ws.Mount(ctx, factionRoute(remote))
	require.NoError(t, err)

	require.NoError(t, p.Handle(ctx, "create", nil))
	v := p.View().(EntityView)
	assert.Equal(t, "creating", v.Dialog)
	require.Len(t, v.Controls, 2)

	require.NoError(t, p.Handle(ctx, "submit", url.Values{"id": {"3"}, "Name": {"Ab"}}))
	v = p.View().(EntityView)
	assert.Equal(t, "creating", v.Dialog)
	assert.NotEmpty(t, v.Controls[1].Error)

	require.NoError(t, p.Handle(ctx, "submit", url.Values{"id": {"3"}, "Name": {"Abcd"}}))
	v = p.View().(EntityView)
	assert.Empty(t, v.Dialog)
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, notify.Success, ws.Notes.Active()[0].Kind)

	require.NoError(t, p.Handle(ctx, "filter", url.Values{"q": {"zzz"}}))
	v = p.View().(EntityView)
	assert.True(t, v.NoRows)
	assert.Nil(t, v.Fault)

	require.NoError(t, p.Handle(ctx, "delete", url.Values{"id": {"2"}}))
	assert.Equal(t, "deleting", p.View().(EntityView).Dialog)
	require.NoError(t, p.Handle(ctx, "cancel", nil))
	assert.Empty(t, p.View().(EntityView).Dialog)

	assert.ErrorIs(t, p.Handle(ctx, "edit", url.Values{"id": {"x"}}), ErrBadAction)
	assert.ErrorIs(t, p.Handle(ctx, "edit", url.Values{"id": {"99"}}), ErrBadAction)
	assert.ErrorIs(t, p.Handle(ctx, "explode", nil), ErrBadAction)
	assert.ErrorIs(t, p.Handle(ctx, "size", url.Values{"size": {"15"}}), ErrBadAction)
	assert.NoError(t, p.Handle(ctx, "size", url.Values{"size": {"20"}}))
}

type fakeAuth struct{ token string }

func (f fakeAuth) Login(_ context.Context, cred apiclient.Credentials) (string, error) {
	if cred.Password != "secret1" {
		return "", &apiclient.Error{Status: http.StatusUnauthorized, Fields: map[string]string{"password": "Invalid password"}}
	}
	return f.token, nil
}

func TestSignInAndOut(t *testing.T) {
	ws, _ := newWorkspaces().Get(context.Background(), "")
	ctx := context.Background()

	err := ws.SignIn(ctx, fakeAuth{"mod"}, url.Values{"name": {"mo"}, "password": {"secret1"}})
	require.ErrorIs(t, err, form.ErrInvalid)
	assert.NotEmpty(t, ws.LoginForm().Errors()["name"])

	err = ws.SignIn(ctx, fakeAuth{"mod"}, url.Values{"name": {"moderator"}, "password": {"wrong12"}})
	require.ErrorIs(t, err, form.ErrInvalid)
	assert.Equal(t, "Invalid password", ws.LoginForm().Errors()["password"])
	for _, c := range ws.LoginForm().Controls() {
		if c.Name == "password" {
			assert.Empty(t, c.Value)
			assert.Equal(t, "password", c.Type)
		}
	}

	require.NoError(t, ws.SignIn(ctx, fakeAuth{"mod"}, url.Values{"name": {"moderator"}, "password": {"secret1"}}))
	id, ok := ws.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "mod", id.Name)

	require.NoError(t, ws.SignOut(ctx))
	_, ok = ws.Session.Current()
	assert.False(t, ok)
}

func TestWorkspacesReuseAndSweep(t *testing.T) {
	w := newWorkspaces()
	ctx := context.Background()
	a, created := w.Get(ctx, "")
	require.True(t, created)
	b, created := w.Get(ctx, a.ID)
	assert.False(t, created)
	assert.Same(t, a, b)

	c, created := w.Get(ctx, "not-a-uuid")
	assert.True(t, created)
	assert.NotEqual(t, "not-a-uuid", c.ID)
	assert.Equal(t, 2, w.Len())
	assert.Zero(t, w.Sweep())
}

func TestRendererRendersEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	remote := &factions{rows: []gamedata.Faction{{ID: 1, Name: "Alliance"}}}
	ws := signedIn(t, "mod")
	p, err := ws.Mount(context.Background(), factionRoute(remote))
	require.NoError(t, err)
	require.NoError(t, p.Handle(context.Background(), "edit", url.Values{"id": {"1"}}))
	id, _ := ws.Session.Current()
	nav, _ := LoadNavigation("")

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "entity", PageData{
		Title: "Factions", Path: "/panel/factions", Identity: &id,
		Nav:     nav.View("/panel/factions", ws.Session.Permits),
		Crumbs:  []Crumb{{Title: "Dashboard", URL: "/panel"}, {Title: "Factions"}},
		Notes:   []notify.Notification{{ID: "n1", Kind: notify.Error, Title: "Oops"}},
		Content: p.View(),
	}))
	html := buf.String()
	assert.Contains(t, html, "Alliance")
	assert.Contains(t, html, "Edit Faction #1")
	assert.Contains(t, html, `value="1"`)
	assert.Contains(t, html, "Oops")

	for name, content := range map[string]any{
		"login":       LoginView{Controls: ws.LoginForm().Controls()},
		"dashboard":   DashboardView{Name: "mod", Access: "moderator"},
		"restricted":  FaultView{},
		"unreachable": FaultView{Message: "connection refused"},
		"error":       FaultView{Code: "404", Message: "Not found"},
		"home":        nil,
	} {
		buf.Reset()
		require.NoError(t, r.Render(&buf, name, PageData{Title: name, Content: content}), name)
	}
	assert.Contains(t, buf.String(), "<html")
	assert.Error(t, r.Render(&buf, "missing", PageData{}))
}
