package shell

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/hotreload"
)

//go:embed navigation.yaml
var defaultNavigation []byte

// NavItem is a sidebar link. Items may carry one level of sub-items.
type NavItem struct {
	Title    string       `yaml:"title"`
	URL      string       `yaml:"url"`
	Icon     string       `yaml:"icon,omitempty"`
	Required access.Level `yaml:"access,omitempty"`
	Subs     []NavItem    `yaml:"subs,omitempty"`
}

type NavGroup struct {
	Title string    `yaml:"title"`
	Items []NavItem `yaml:"items"`
}

type Navigation struct {
	Groups []NavGroup `yaml:"groups"`
}

// ParseNavigation decodes and checks a navigation document.
func ParseNavigation(b []byte) (*Navigation, error) {
	var n Navigation
	if err := yaml.Unmarshal(b, &n); err != nil {
		return nil, fmt.Errorf("navigation: %w", err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}

// LoadNavigation reads path, or the built-in menu when path is empty.
func LoadNavigation(path string) (*Navigation, error) {
	if path == "" {
		return ParseNavigation(defaultNavigation)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("navigation: %w", err)
	}
	return ParseNavigation(b)
}

func (n *Navigation) Validate() error {
	for _, g := range n.Groups {
		for _, it := range g.Items {
			if it.Title == "" {
				return fmt.Errorf("navigation: item without title in group %q", g.Title)
			}
			for _, s := range it.Subs {
				if len(s.Subs) > 0 {
					return fmt.Errorf("navigation: %q > %q nests deeper than one level", it.Title, s.Title)
				}
			}
		}
	}
	return nil
}

// Expanded reports whether an item with sub-items starts open: only when the
// current path is one of its descendants.
func (it NavItem) Expanded(path string) bool {
	for _, s := range it.Subs {
		if matchPath(s.URL, path) {
			return true
		}
	}
	return false
}

func matchPath(url, path string) bool {
	if url == "" || url == "#" {
		return false
	}
	return strings.TrimRight(url, "/") == strings.TrimRight(path, "/")
}

type NavLink struct {
	Title    string
	URL      string
	Icon     string
	Active   bool
	Expanded bool
	Subs     []NavLink
}

type NavSection struct {
	Title string
	Links []NavLink
}

// View filters the menu by what permits allows and marks the current path.
func (n *Navigation) View(path string, permits func(access.Level) bool) []NavSection {
	var out []NavSection
	for _, g := range n.Groups {
		sec := NavSection{Title: g.Title}
		for _, it := range g.Items {
			if !permits(it.Required) {
				continue
			}
			link := NavLink{Title: it.Title, URL: it.URL, Icon: it.Icon, Active: matchPath(it.URL, path), Expanded: it.Expanded(path)}
			for _, s := range it.Subs {
				if permits(s.Required) {
					link.Subs = append(link.Subs, NavLink{Title: s.Title, URL: s.URL, Icon: s.Icon, Active: matchPath(s.URL, path)})
				}
			}
			if len(it.Subs) > 0 && len(link.Subs) == 0 && (it.URL == "" || it.URL == "#") {
				continue
			}
			sec.Links = append(sec.Links, link)
		}
		if len(sec.Links) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

// NavStore holds the current menu and swaps it when the file changes.
type NavStore struct {
	cur atomic.Pointer[Navigation]
}

func NewNavStore(n *Navigation) *NavStore {
	s := &NavStore{}
	s.cur.Store(n)
	return s
}

func (s *NavStore) Get() *Navigation { return s.cur.Load() }

func (s *NavStore) Set(n *Navigation) { s.cur.Store(n) }

// WatchNavigation reloads path into s on every change until ctx is done.
// An invalid edit is logged and the previous menu stays.
func WatchNavigation(ctx context.Context, path string, s *NavStore, logger *slog.Logger) (*hotreload.Reloader, error) {
	r, err := hotreload.NewReloader(nil, logger)
	if err != nil {
		return nil, err
	}
	err = r.Watch(path, hotreload.DecodeHandler(func(n Navigation) error {
		if err := n.Validate(); err != nil {
			return err
		}
		s.Set(&n)
		return nil
	}))
	if err != nil {
		r.Stop()
		return nil, err
	}
	if err := r.Start(ctx); err != nil {
		r.Stop()
		return nil, err
	}
	return r, nil
}
