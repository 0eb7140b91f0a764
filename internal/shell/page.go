package shell

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lightgame/panel/internal/access"
	"github.com/lightgame/panel/internal/entity"
	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/listview"
)

// ErrBadAction is returned for a posted action the page does not understand.
var ErrBadAction = errors.New("shell: bad action")

// EntityRoute wires a manager-backed page at path. build runs once per workspace.
func EntityRoute[T entity.Record](path, title string, required access.Level, build func(ws *Workspace) (*entity.Manager[T], error)) Route {
	return Route{
		Path:     path,
		Title:    title,
		Required: required,
		New: func(ws *Workspace) (Page, error) {
			m, err := build(ws)
			if err != nil {
				return nil, err
			}
			return &EntityPage[T]{base: cleanPath(path), title: title, m: m, ws: ws}, nil
		},
	}
}

// EntityPage adapts an entity manager to the shell.
type EntityPage[T entity.Record] struct {
	base  string
	title string
	m     *entity.Manager[T]
	ws    *Workspace
}

func (p *EntityPage[T]) Manager() *entity.Manager[T] { return p.m }

func (p *EntityPage[T]) Activate(ctx context.Context) error { return p.m.Activate(ctx) }

func (p *EntityPage[T]) Template() string { return "entity" }

func formID(v url.Values) (int, error) {
	id, err := strconv.Atoi(v.Get("id"))
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", ErrBadAction, v.Get("id"))
	}
	return id, nil
}

// Handle applies one posted action. Outcomes the user should see (field
// errors, failed calls) are left in the page state and notifications; only a
// malformed request is returned as an error.
func (p *EntityPage[T]) Handle(ctx context.Context, action string, v url.Values) error {
	t := p.m.Table()
	var err error
	switch action {
	case "create":
		err = p.m.BeginCreate()
	case "edit", "delete":
		var id int
		if id, err = formID(v); err != nil {
			return err
		}
		if action == "edit" {
			err = p.m.BeginEdit(id)
		} else {
			err = p.m.BeginDelete(id)
		}
	case "cancel":
		p.m.Cancel()
	case "submit":
		err = p.m.Submit(ctx, v)
	case "confirm":
		err = p.m.ConfirmDelete(ctx)
	case "reload":
		err = p.m.Activate(ctx)
	case "filter":
		t.SetFilter(v.Get("q"))
	case "sort":
		t.ToggleSort(v.Get("col"))
	case "column":
		t.ToggleColumn(v.Get("col"))
	case "page":
		rows := p.m.Items()
		switch v.Get("to") {
		case "first":
			t.FirstPage()
		case "prev":
			t.PrevPage()
		case "next":
			t.NextPage(rows)
		case "last":
			t.LastPage(rows)
		default:
			n, perr := strconv.Atoi(v.Get("to"))
			if perr != nil {
				return fmt.Errorf("%w: page %q", ErrBadAction, v.Get("to"))
			}
			t.SetPage(n-1, rows)
		}
	case "size":
		n, perr := strconv.Atoi(v.Get("size"))
		if perr != nil {
			return fmt.Errorf("%w: size %q", ErrBadAction, v.Get("size"))
		}
		if serr := t.SetPageSize(n); serr != nil {
			return fmt.Errorf("%w: %v", ErrBadAction, serr)
		}
	case "select":
		var id int
		if id, err = formID(v); err != nil {
			return err
		}
		t.ToggleRow(id)
	case "select-page":
		t.ToggleAllOnPage(p.m.Items())
	default:
		return fmt.Errorf("%w: %q", ErrBadAction, action)
	}
	return p.outcome(err)
}

func (p *EntityPage[T]) outcome(err error) error {
	switch {
	case err == nil, errors.Is(err, form.ErrInvalid):
		return nil
	case errors.Is(err, entity.ErrBusy):
		p.ws.Notes.Failure("Please wait", "A request is already in progress.")
		return nil
	case errors.Is(err, entity.ErrNotFound), errors.Is(err, entity.ErrReadOnly),
		errors.Is(err, entity.ErrNoAction), errors.Is(err, entity.ErrInvalidTransition):
		return fmt.Errorf("%w: %v", ErrBadAction, err)
	default:
		// failed API calls were already reported through notifications or the fault view
		return nil
	}
}

type EntityRow struct {
	ID       int
	Selected bool
	Cells    []listview.Cell
}

// EntityView is the template data of an entity page.
type EntityView struct {
	Title      string
	Name       string
	Base       string
	ReadOnly   bool
	Loading    bool
	Fault      *entity.Fault
	Headers    []listview.Header
	Hidden     []listview.Header
	Rows       []EntityRow
	NoRows     bool
	Filter     string
	FilterBy   string
	Total      int
	Matched    int
	PageNumber int
	PageCount  int
	PageSize   int
	PageSizes  []int
	CanFirst   bool
	CanPrev    bool
	CanNext    bool
	CanLast    bool
	Selected   int
	AllOnPage  bool
	SomeOnPage bool
	Dialog     string
	TargetID   int
	Controls   []form.Control
	General    []string
	Submitting bool
}

func (p *EntityPage[T]) View() any {
	s := p.m.Snapshot()
	v := EntityView{
		Title:      p.title,
		Name:       s.Name,
		Base:       p.base,
		ReadOnly:   s.ReadOnly,
		Loading:    s.Loading || s.Table.Empty == listview.EmptyLoading,
		Fault:      s.Fault,
		Headers:    s.Table.Headers,
		Hidden:     s.Table.Hidden,
		NoRows:     s.Table.Empty == listview.EmptyNoRows,
		Filter:     s.Table.Filter,
		FilterBy:   s.Table.FilterColumn,
		Total:      s.Table.Total,
		Matched:    s.Table.Matched,
		PageNumber: s.Table.PageIndex + 1,
		PageCount:  s.Table.PageCount,
		PageSize:   s.Table.PageSize,
		PageSizes:  s.Table.PageSizes,
		CanFirst:   s.Table.CanFirst,
		CanPrev:    s.Table.CanPrev,
		CanNext:    s.Table.CanNext,
		CanLast:    s.Table.CanLast,
		Selected:   s.Table.Selected,
		AllOnPage:  s.Table.AllOnPage,
		SomeOnPage: s.Table.SomeOnPage,
		Controls:   s.Controls,
		General:    s.General,
		Submitting: s.Submitting,
	}
	for _, r := range s.Table.Rows {
		v.Rows = append(v.Rows, EntityRow{ID: r.ID, Selected: r.Selected, Cells: r.Cells})
	}
	if s.Action.Open() {
		v.Dialog = s.Action.Kind().String()
		v.TargetID, _ = s.Action.Target()
	}
	return v
}

// DashboardPage is the landing page of a signed-in user.
type DashboardPage struct {
	path   string
	ws     *Workspace
	router *Router
}

func DashboardRoute(path string, router func() *Router) Route {
	return Route{
		Path:     path,
		Title:    "Dashboard",
		Required: access.Player,
		New: func(ws *Workspace) (Page, error) {
			return &DashboardPage{path: cleanPath(path), ws: ws, router: router()}, nil
		},
	}
}

func (d *DashboardPage) Activate(context.Context) error { return nil }

func (d *DashboardPage) Handle(_ context.Context, action string, _ url.Values) error {
	return fmt.Errorf("%w: %q", ErrBadAction, action)
}

func (d *DashboardPage) Template() string { return "dashboard" }

type DashboardLink struct {
	Title    string
	Path     string
	Required string
}

type DashboardView struct {
	Name   string
	Access string
	Links  []DashboardLink
}

func (d *DashboardPage) View() any {
	id, _ := d.ws.Session.Current()
	v := DashboardView{Name: id.Name, Access: id.Access.String()}
	if d.router == nil {
		return v
	}
	for _, rt := range d.router.Routes() {
		if rt.Path == d.path || !d.ws.Session.Permits(rt.Required) {
			continue
		}
		v.Links = append(v.Links, DashboardLink{Title: rt.Title, Path: rt.Path, Required: rt.Required.String()})
	}
	return v
}
