// Package listview is the query layer behind every data table: a filter on
// one column, single-column sort, selection by record id and client-side
// pagination. It knows nothing about how the rows were obtained or changed.
package listview

import (
	"fmt"
	"html/template"
	"slices"
	"strings"
)

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 20, 30, 40, 50}

type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// Column describes one table column. Cell overrides the default escaped text.
type Column[T any] struct {
	ID       string
	Header   string
	Value    func(T) any
	Cell     func(T) template.HTML
	Sortable bool
	Hideable bool
}

// FilterFunc matches one cell value against the query.
type FilterFunc func(value any, query string) bool

// ContainsFold is the default filter: case-insensitive substring.
func ContainsFold(value any, query string) bool {
	return strings.Contains(strings.ToLower(fmt.Sprint(value)), strings.ToLower(query))
}

type Config[T any] struct {
	Columns []Column[T]
	// Key returns the record id used for selection.
	Key func(T) int
	// FilterColumn is the ID of the column the free-text filter applies to.
	FilterColumn string
	Filter       FilterFunc
	PageSize     int
}

// Table holds the view state of one list. Not safe for concurrent use.
type Table[T any] struct {
	cfg      Config[T]
	filter   string
	sortCol  string
	sortDir  SortDir
	selected map[int]struct{}
	hidden   map[string]bool
	page     int
	pageSize int
}

func New[T any](cfg Config[T]) (*Table[T], error) {
	if cfg.Key == nil {
		return nil, fmt.Errorf("listview: Key is required")
	}
	ids := map[string]bool{}
	for _, c := range cfg.Columns {
		if c.ID == "" || c.Value == nil {
			return nil, fmt.Errorf("listview: column %q needs an ID and a Value", c.Header)
		}
		if ids[c.ID] {
			return nil, fmt.Errorf("listview: duplicate column %q", c.ID)
		}
		ids[c.ID] = true
	}
	if cfg.FilterColumn != "" && !ids[cfg.FilterColumn] {
		return nil, fmt.Errorf("listview: filter column %q not found", cfg.FilterColumn)
	}
	if cfg.Filter == nil {
		cfg.Filter = ContainsFold
	}
	if !slices.Contains(PageSizes, cfg.PageSize) {
		cfg.PageSize = PageSizes[0]
	}
	return &Table[T]{
		cfg:      cfg,
		selected: map[int]struct{}{},
		hidden:   map[string]bool{},
		pageSize: cfg.PageSize,
	}, nil
}

func (t *Table[T]) column(id string) (Column[T], bool) {
	for _, c := range t.cfg.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}

// SetFilter changes the filter text and goes back to the first page.
func (t *Table[T]) SetFilter(q string) {
	t.filter = q
	t.page = 0
}

func (t *Table[T]) Filter() string { return t.filter }

// ToggleSort cycles a column through ascending, descending and unsorted.
// Sorting by another column starts over at ascending.
func (t *Table[T]) ToggleSort(id string) {
	c, ok := t.column(id)
	if !ok || !c.Sortable {
		return
	}
	if t.sortCol != id {
		t.sortCol, t.sortDir = id, SortAsc
		return
	}
	switch t.sortDir {
	case SortAsc:
		t.sortDir = SortDesc
	case SortDesc:
		t.sortCol, t.sortDir = "", SortNone
	default:
		t.sortDir = SortAsc
	}
}

func (t *Table[T]) Sort() (string, SortDir) { return t.sortCol, t.sortDir }

// ToggleColumn shows or hides a hideable column.
func (t *Table[T]) ToggleColumn(id string) {
	if c, ok := t.column(id); ok && c.Hideable {
		t.hidden[id] = !t.hidden[id]
	}
}

// SetPageSize accepts only one of PageSizes and goes back to the first page.
func (t *Table[T]) SetPageSize(n int) error {
	if !slices.Contains(PageSizes, n) {
		return fmt.Errorf("listview: page size %d not in %v", n, PageSizes)
	}
	t.pageSize = n
	t.page = 0
	return nil
}

func (t *Table[T]) PageSize() int { return t.pageSize }

// PageIndex is zero-based.
func (t *Table[T]) PageIndex() int { return t.page }

func (t *Table[T]) FirstPage() { t.page = 0 }

func (t *Table[T]) PrevPage() {
	if t.page > 0 {
		t.page--
	}
}

// NextPage and LastPage need the rows to know where the end is.
func (t *Table[T]) NextPage(rows []T) {
	if t.page+1 < t.pageCount(len(t.query(rows))) {
		t.page++
	}
}

func (t *Table[T]) LastPage(rows []T) {
	t.page = t.pageCount(len(t.query(rows))) - 1
}

func (t *Table[T]) SetPage(i int, rows []T) {
	n := t.pageCount(len(t.query(rows)))
	t.page = max(0, min(i, n-1))
}

// ToggleRow flips the selection of one record.
func (t *Table[T]) ToggleRow(id int) {
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		return
	}
	t.selected[id] = struct{}{}
}

func (t *Table[T]) IsSelected(id int) bool {
	_, ok := t.selected[id]
	return ok
}

// ToggleAllOnPage selects every row of the current page, or clears them all
// when they are already selected. Rows on other pages keep their state.
func (t *Table[T]) ToggleAllOnPage(rows []T) {
	page := t.currentPage(t.query(rows))
	all := len(page) > 0
	for _, r := range page {
		if !t.IsSelected(t.cfg.Key(r)) {
			all = false
			break
		}
	}
	for _, r := range page {
		if all {
			delete(t.selected, t.cfg.Key(r))
		} else {
			t.selected[t.cfg.Key(r)] = struct{}{}
		}
	}
}

func (t *Table[T]) ClearSelection() { t.selected = map[int]struct{}{} }

// Selected returns the selected ids in ascending order.
func (t *Table[T]) Selected() []int {
	out := make([]int, 0, len(t.selected))
	for id := range t.selected {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// query applies filter then sort, without mutating rows.
func (t *Table[T]) query(rows []T) []T {
	out := make([]T, 0, len(rows))
	fc, filtering := t.column(t.cfg.FilterColumn)
	filtering = filtering && t.filter != ""
	for _, r := range rows {
		if filtering && !t.cfg.Filter(fc.Value(r), t.filter) {
			continue
		}
		out = append(out, r)
	}
	if sc, ok := t.column(t.sortCol); ok && t.sortDir != SortNone {
		slices.SortStableFunc(out, func(a, b T) int {
			c := compare(sc.Value(a), sc.Value(b))
			if t.sortDir == SortDesc {
				return -c
			}
			return c
		})
	}
	return out
}

func (t *Table[T]) pageCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + t.pageSize - 1) / t.pageSize
}

func (t *Table[T]) currentPage(rows []T) []T {
	n := t.pageCount(len(rows))
	if t.page >= n {
		t.page = n - 1
	}
	lo := t.page * t.pageSize
	hi := min(lo+t.pageSize, len(rows))
	if lo >= hi {
		return nil
	}
	return rows[lo:hi]
}
