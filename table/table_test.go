package table

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

func TestFormatters(t *testing.T) {
	row := core.Record{"firstName": "Ann", "lastName": "Lee", "middle": ""}

	tests := []struct {
		name   string
		render RenderFunc
		value  interface{}
		want   string
	}{
		{name: "text nil", render: Text, value: nil, want: ""},
		{name: "text number", render: Text, value: float64(12), want: "12"},
		{name: "money", render: Money, value: float64(5000), want: "5,000.00"},
		{name: "money small", render: Money, value: 12.5, want: "12.50"},
		{name: "money millions", render: Money, value: float64(1234567.891), want: "1,234,567.89"},
		{name: "money negative", render: Money, value: float64(-2500), want: "-2,500.00"},
		{name: "money string", render: Money, value: "300", want: "300.00"},
		{name: "money not a number", render: Money, value: "n/a", want: "n/a"},
		{name: "date timestamp", render: Date, value: "2024-03-09T10:00:00.000Z", want: "2024-03-09"},
		{name: "date plain", render: Date, value: "2024-03-09", want: "2024-03-09"},
		{name: "date garbage", render: Date, value: "soon", want: "soon"},
		{name: "yes", render: YesNo, value: true, want: "Yes"},
		{name: "no", render: YesNo, value: false, want: "No"},
		{name: "yesno nil", render: YesNo, value: nil, want: ""},
		{name: "status", render: Status, value: "IN_PROGRESS", want: "In progress"},
		{name: "status empty", render: Status, value: "", want: ""},
		{name: "status accented", render: Status, value: "état_civil", want: "État civil"},
		{name: "money nan", render: Money, value: "NaN", want: "NaN"},
		{name: "join", render: Join(" ", "firstName", "middle", "lastName"), want: "Ann Lee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.render(tt.value, row); got != tt.want {
				t.Errorf("render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func students(n int) []core.Record {
	recs := make([]core.Record, 0, n)
	for i := 1; i <= n; i++ {
		recs = append(recs, core.Record{"id": strconv.Itoa(i), "name": "Student " + strconv.Itoa(i), "class": "10"})
	}
	return recs
}

func TestView_searchAndPagination(t *testing.T) {
	cols := []Column{{Key: "name", Label: "Name"}, {Key: "class", Label: "Class"}}
	data := append(students(12), core.Record{"id": "x", "name": "Zoe", "class": "Grade 9"})

	tests := []struct {
		name      string
		search    string
		page      int
		pageSize  int
		wantIDs   []string
		wantPages int
	}{
		{name: "first page", page: 1, pageSize: 5, wantIDs: []string{"1", "2", "3", "4", "5"}, wantPages: 3},
		{name: "last page", page: 3, pageSize: 5, wantIDs: []string{"11", "12", "x"}, wantPages: 3},
		{name: "page out of range is clamped", page: 9, pageSize: 5, wantIDs: []string{"11", "12", "x"}, wantPages: 3},
		{name: "page zero", pageSize: 5, wantIDs: []string{"1", "2", "3", "4", "5"}, wantPages: 3},
		{name: "search is case insensitive", search: "ZOE", pageSize: 5, wantIDs: []string{"x"}, wantPages: 1},
		{name: "search covers every column", search: "grade", pageSize: 5, wantIDs: []string{"x"}, wantPages: 1},
		{name: "search then paginate", search: "student 1", page: 1, pageSize: 2, wantIDs: []string{"1", "10"}, wantPages: 2},
		{name: "no match", search: "lol", wantIDs: []string{}, wantPages: 1},
		{name: "default page size", wantIDs: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, wantPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &View{Columns: cols, Data: data, Search: tt.search, Page: tt.page, PageSize: tt.pageSize}
			ids := make([]string, 0)
			for _, r := range v.Rows() {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPages, v.Pages())
		})
	}
}

func TestView_Render(t *testing.T) {
	cols := []Column{{Key: "name", Label: "Name"}, {Key: "amount", Label: "Amount", Render: Money}}

	t.Run("loading", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&View{Title: "Fee discounts", Columns: cols, Loading: true}).Render(&buf))
		assert.Contains(t, buf.String(), "Loading…")
		assert.NotContains(t, buf.String(), "No records found")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&View{Columns: cols}).Render(&buf))
		assert.Contains(t, buf.String(), "No records found")
	})

	t.Run("rows", func(t *testing.T) {
		var buf bytes.Buffer
		v := &View{Title: "Fee discounts", Columns: cols, Data: []core.Record{{"_id": "1", "name": "Sibling", "amount": float64(5000)}}}
		require.NoError(t, v.Render(&buf))
		out := buf.String()
		for _, want := range []string{"Fee discounts", "Name", "Amount", "Sibling", "5,000.00", "page 1/1"} {
			assert.Contains(t, out, want)
		}
	})
}

func TestView_actions(t *testing.T) {
	v := &View{}
	row := core.Record{"id": "1"}
	assert.False(t, v.Edit(row))
	assert.False(t, v.Delete(row))

	var edited, deleted string
	v.OnEdit = func(r core.Record) { edited = r.ID() }
	v.OnDelete = func(r core.Record) { deleted = r.ID() }
	assert.True(t, v.Edit(row))
	assert.True(t, v.Delete(row))
	assert.Equal(t, "1", edited)
	assert.Equal(t, "1", deleted)
}
