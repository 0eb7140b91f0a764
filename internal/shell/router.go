package shell

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/session"
)

// PageFactory builds the page instance owned by one workspace.
type PageFactory func(ws *Workspace) (Page, error)

// Route maps a URL path to a page behind an access level.
type Route struct {
	Path     string
	Title    string
	Required access.Level
	New      PageFactory
}

type Router struct {
	routes map[string]Route
	order  []string
}

func NewRouter(routes ...Route) (*Router, error) {
	r := &Router{routes: make(map[string]Route, len(routes))}
	for _, rt := range routes {
		p := cleanPath(rt.Path)
		if rt.New == nil {
			return nil, fmt.Errorf("shell: route %s has no page", p)
		}
		if _, dup := r.routes[p]; dup {
			return nil, fmt.Errorf("shell: duplicate route %s", p)
		}
		rt.Path = p
		r.routes[p] = rt
		r.order = append(r.order, p)
	}
	return r, nil
}

func cleanPath(p string) string {
	p = "/" + strings.Trim(p, "/")
	return p
}

// Resolve finds the route for path; a trailing slash is ignored.
func (r *Router) Resolve(path string) (Route, bool) {
	rt, ok := r.routes[cleanPath(path)]
	return rt, ok
}

func (r *Router) Routes() []Route {
	out := make([]Route, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, r.routes[p])
	}
	return out
}

type Decision int

const (
	Allow Decision = iota
	// Restricted blocks the page: anonymous or too low an access level.
	Restricted
	// Unreachable means the identity could not be checked because the game API is down.
	Unreachable
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Restricted:
		return "restricted"
	default:
		return "unreachable"
	}
}

// Guard decides whether the session may see rt. A session whose identity
// could not be resolved because the server was unreachable is told so
// instead of being shown the restricted view.
func Guard(sess *session.Context, rt Route) Decision {
	if sess.Permits(rt.Required) {
		return Allow
	}
	if _, ok := sess.Current(); !ok && errors.Is(sess.LastError(), session.ErrUnreachable) {
		return Unreachable
	}
	return Restricted
}

// Page is one screen of the panel.
type Page interface {
	// Activate runs when the page is mounted, i.e. navigated to from another page.
	Activate(ctx context.Context) error
	// Handle applies a posted action.
	Handle(ctx context.Context, action string, form url.Values) error
	// Template names the content template.
	Template() string
	// View returns the template data for the content area.
	View() any
}
