package table

import (
	"strings"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// DefaultPageSize is used when View.PageSize is not set.
const DefaultPageSize = 10

// View is one rendered page of a collection.
type View struct {
	Title    string
	Columns  []Column
	Data     []core.Record
	Loading  bool
	Search   string
	Page     int // 1-based
	PageSize int

	OnEdit   func(row core.Record)
	OnDelete func(row core.Record)
}

func (v *View) pageSize() int {
	if v.PageSize <= 0 {
		return DefaultPageSize
	}
	return v.PageSize
}

// Matches returns the records whose rendered cells contain the search term, case-insensitively.
func (v *View) Matches() []core.Record {
	term := core.CleanString(v.Search, true)
	if term == "" {
		return v.Data
	}
	out := make([]core.Record, 0, len(v.Data))
	for _, row := range v.Data {
		for _, col := range v.Columns {
			if strings.Contains(strings.ToLower(col.Cell(row)), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Pages returns the page count of the matching records; at least 1.
func (v *View) Pages() int {
	n := len(v.Matches())
	size := v.pageSize()
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// CurrentPage clamps Page to [1, Pages()].
func (v *View) CurrentPage() int {
	p, pages := v.Page, v.Pages()
	if p < 1 {
		return 1
	}
	if p > pages {
		return pages
	}
	return p
}

// Rows returns the records of the current page, after search.
func (v *View) Rows() []core.Record {
	matches := v.Matches()
	size := v.pageSize()
	start := (v.CurrentPage() - 1) * size
	if start >= len(matches) {
		return []core.Record{}
	}
	end := start + size
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end]
}

// Cells renders every row of the current page.
func (v *View) Cells() [][]string {
	rows := v.Rows()
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, v.cells(row))
	}
	return cells
}

func (v *View) cells(row core.Record) []string {
	line := make([]string, 0, len(v.Columns))
	for _, col := range v.Columns {
		line = append(line, col.Cell(row))
	}
	return line
}

func (v *View) Headers() []string {
	hdr := make([]string, 0, len(v.Columns))
	for _, col := range v.Columns {
		hdr = append(hdr, col.Header())
	}
	return hdr
}

// Edit invokes the edit action, reporting whether one is set.
func (v *View) Edit(row core.Record) bool {
	if v.OnEdit == nil {
		return false
	}
	v.OnEdit(row)
	return true
}

// Delete invokes the delete action, reporting whether one is set.
func (v *View) Delete(row core.Record) bool {
	if v.OnDelete == nil {
		return false
	}
	v.OnDelete(row)
	return true
}
