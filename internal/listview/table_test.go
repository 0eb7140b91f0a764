package listview

import (
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int
	Name string
	Cost float64
}

func items(n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{ID: i + 1, Name: fmt.Sprintf("Item %02d", i+1), Cost: float64((i * 7) % 11)}
	}
	return out
}

func newTable(t *testing.T) *Table[item] {
	t.Helper()
	tb, err := New(Config[item]{
		Columns: []Column[item]{
			{ID: "id", Header: "ID", Value: func(i item) any { return i.ID }, Sortable: true},
			{ID: "name", Header: "Name", Value: func(i item) any { return i.Name }, Sortable: true, Hideable: true},
			{ID: "cost", Header: "Cost", Value: func(i item) any { return i.Cost }, Sortable: true, Hideable: true},
		},
		Key:          func(i item) int { return i.ID },
		FilterColumn: "name",
	})
	require.NoError(t, err)
	return tb
}

func ids(p Page[item]) []int {
	out := make([]int, 0, len(p.Rows))
	for _, r := range p.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestPagination(t *testing.T) {
	tb := newTable(t)
	rows := items(25)

	p := tb.View(rows, false)
	assert.Equal(t, 3, p.PageCount)
	assert.Len(t, p.Rows, 10)
	assert.False(t, p.CanFirst)
	assert.False(t, p.CanPrev)
	assert.True(t, p.CanNext)
	assert.True(t, p.CanLast)

	tb.LastPage(rows)
	p = tb.View(rows, false)
	assert.Equal(t, 2, p.PageIndex)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, ids(p))
	assert.False(t, p.CanNext)
	assert.False(t, p.CanLast)
	assert.True(t, p.CanPrev)

	tb.NextPage(rows)
	assert.Equal(t, 2, tb.PageIndex())
	tb.PrevPage()
	tb.FirstPage()
	tb.PrevPage()
	assert.Equal(t, 0, tb.PageIndex())
}

func TestPageSize(t *testing.T) {
	tb := newTable(t)
	rows := items(25)
	tb.NextPage(rows)
	require.NoError(t, tb.SetPageSize(20))
	assert.Equal(t, 0, tb.PageIndex())
	assert.Equal(t, 2, tb.View(rows, false).PageCount)
	assert.Error(t, tb.SetPageSize(15))
	assert.Equal(t, 20, tb.PageSize())
}

func TestFilterResetsPageAndShowsEmptyState(t *testing.T) {
	tb := newTable(t)
	rows := items(25)
	tb.NextPage(rows)
	require.Equal(t, 1, tb.PageIndex())

	tb.SetFilter("ITEM 1")
	assert.Equal(t, 0, tb.PageIndex())
	p := tb.View(rows, false)
	assert.Equal(t, []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, ids(p))
	assert.Equal(t, EmptyNone, p.Empty)

	tb.SetFilter("zzz")
	p = tb.View(rows, false)
	assert.Empty(t, p.Rows)
	assert.Equal(t, EmptyNoRows, p.Empty)
	assert.Equal(t, 1, p.PageCount)
	assert.False(t, p.CanNext)
	assert.Equal(t, 25, p.Total)
	assert.Zero(t, p.Matched)
}

func TestLoadingState(t *testing.T) {
	p := newTable(t).View(nil, true)
	assert.Equal(t, EmptyLoading, p.Empty)
	assert.Empty(t, p.Rows)
	assert.Len(t, p.Headers, 3)
}

func TestSortCycle(t *testing.T) {
	tb := newTable(t)
	rows := items(5) // costs 0,7,3,10,6

	tb.ToggleSort("cost")
	assert.Equal(t, []int{1, 3, 5, 2, 4}, ids(tb.View(rows, false)))
	tb.ToggleSort("cost")
	assert.Equal(t, []int{4, 2, 5, 3, 1}, ids(tb.View(rows, false)))
	tb.ToggleSort("cost")
	col, dir := tb.Sort()
	assert.Empty(t, col)
	assert.Equal(t, SortNone, dir)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(tb.View(rows, false)))

	tb.ToggleSort("cost")
	tb.ToggleSort("name")
	col, dir = tb.Sort()
	assert.Equal(t, "name", col)
	assert.Equal(t, SortAsc, dir)
}

func TestSelectionSurvivesPagingFilteringSorting(t *testing.T) {
	tb := newTable(t)
	rows := items(25)

	tb.ToggleAllOnPage(rows)
	p := tb.View(rows, false)
	assert.True(t, p.AllOnPage)
	assert.Equal(t, 10, p.Selected)

	tb.NextPage(rows)
	p = tb.View(rows, false)
	assert.False(t, p.AllOnPage)
	assert.False(t, p.SomeOnPage)
	tb.ToggleRow(11)
	p = tb.View(rows, false)
	assert.True(t, p.SomeOnPage)
	assert.Equal(t, 11, p.Selected)

	tb.FirstPage()
	tb.ToggleSort("id")
	tb.ToggleSort("id")
	tb.SetFilter("Item")
	assert.Len(t, tb.Selected(), 11)
	assert.True(t, tb.IsSelected(3))

	tb.ToggleSort("id")
	tb.SetFilter("")
	tb.ToggleAllOnPage(rows)
	assert.Equal(t, []int{11}, tb.Selected())
	tb.ClearSelection()
	assert.Empty(t, tb.Selected())
}

func TestHiddenColumnsAndCells(t *testing.T) {
	tb, err := New(Config[item]{
		Columns: []Column[item]{
			{ID: "name", Header: "Name", Value: func(i item) any { return i.Name }, Hideable: true},
			{ID: "badge", Header: "Badge", Value: func(i item) any { return i.ID },
				Cell: func(i item) template.HTML { return template.HTML("<b>x</b>") }},
		},
		Key: func(i item) int { return i.ID },
	})
	require.NoError(t, err)
	rows := []item{{ID: 1, Name: "<script>"}}

	p := tb.View(rows, false)
	require.Len(t, p.Rows[0].Cells, 2)
	assert.Equal(t, template.HTML("&lt;script&gt;"), p.Rows[0].Cells[0].HTML)
	assert.Equal(t, template.HTML("<b>x</b>"), p.Rows[0].Cells[1].HTML)

	tb.ToggleColumn("badge")
	tb.ToggleColumn("name")
	p = tb.View(rows, false)
	require.Len(t, p.Headers, 1)
	assert.Equal(t, "badge", p.Headers[0].ID)
	require.Len(t, p.Hidden, 1)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config[item]{})
	assert.Error(t, err)
	_, err = New(Config[item]{Key: func(i item) int { return i.ID }, FilterColumn: "nope"})
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, compare(2, 10))
	assert.Equal(t, -1, compare("apple", "Banana"))
	assert.Equal(t, -1, compare(false, true))
	assert.Equal(t, -1, compare(nil, 1))
	assert.Equal(t, 0, compare(1.5, 1.5))
}
