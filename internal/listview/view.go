package listview

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// EmptyState tells an empty table apart from one still loading.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyLoading
	EmptyNoRows
)

type Header struct {
	ID       string
	Label    string
	Sortable bool
	Sort     SortDir
	Hideable bool
}

type Cell struct {
	Column string
	HTML   template.HTML
}

type Row[T any] struct {
	ID       int
	Record   T
	Selected bool
	Cells    []Cell
}

// Page is everything a template needs to draw the table.
type Page[T any] struct {
	Headers      []Header
	Hidden       []Header
	Rows         []Row[T]
	Filter       string
	FilterColumn string
	Total        int
	Matched      int
	PageIndex    int
	PageCount    int
	PageSize     int
	PageSizes    []int
	CanFirst     bool
	CanPrev      bool
	CanNext      bool
	CanLast      bool
	Selected     int
	AllOnPage    bool
	SomeOnPage   bool
	Empty        EmptyState
}

// View computes the visible page over rows. While loading the table is
// always empty and shows the loading state.
func (t *Table[T]) View(rows []T, loading bool) Page[T] {
	p := Page[T]{
		Filter:       t.filter,
		FilterColumn: t.cfg.FilterColumn,
		PageSize:     t.pageSize,
		PageSizes:    PageSizes,
	}
	visible := make([]Column[T], 0, len(t.cfg.Columns))
	for _, c := range t.cfg.Columns {
		h := Header{ID: c.ID, Label: c.Header, Sortable: c.Sortable, Hideable: c.Hideable}
		if c.ID == t.sortCol {
			h.Sort = t.sortDir
		}
		if h.Label == "" {
			h.Label = c.ID
		}
		if t.hidden[c.ID] {
			p.Hidden = append(p.Hidden, h)
			continue
		}
		p.Headers = append(p.Headers, h)
		visible = append(visible, c)
	}
	if loading {
		p.Empty = EmptyLoading
		p.PageCount = 1
		return p
	}

	matched := t.query(rows)
	page := t.currentPage(matched)
	p.Total = len(rows)
	p.Matched = len(matched)
	p.PageIndex = t.page
	p.PageCount = t.pageCount(len(matched))
	p.CanFirst = t.page > 0
	p.CanPrev = t.page > 0
	p.CanNext = t.page+1 < p.PageCount
	p.CanLast = t.page+1 < p.PageCount
	if len(matched) == 0 {
		p.Empty = EmptyNoRows
	}

	for _, r := range rows {
		if t.IsSelected(t.cfg.Key(r)) {
			p.Selected++
		}
	}
	selectedOnPage := 0
	for _, r := range page {
		id := t.cfg.Key(r)
		row := Row[T]{ID: id, Record: r, Selected: t.IsSelected(id)}
		if row.Selected {
			selectedOnPage++
		}
		for _, c := range visible {
			row.Cells = append(row.Cells, Cell{Column: c.ID, HTML: render(c, r)})
		}
		p.Rows = append(p.Rows, row)
	}
	p.AllOnPage = len(page) > 0 && selectedOnPage == len(page)
	p.SomeOnPage = selectedOnPage > 0 && !p.AllOnPage
	return p
}

func render[T any](c Column[T], r T) template.HTML {
	if c.Cell != nil {
		return c.Cell(r)
	}
	return template.HTML(template.HTMLEscapeString(Text(c.Value(r))))
}

// Text formats a cell value for display.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.DateTime)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case []string:
		return strings.Join(x, ", ")
	default:
		return fmt.Sprint(x)
	}
}
