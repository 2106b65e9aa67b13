package table

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

const (
	loadingText = "Loading…"
	emptyText   = "No records found"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// Render writes the current page as a bordered table, followed by a `page x/y` footer.
func (v *View) Render(w io.Writer) error {
	if v.Title != "" {
		if _, err := fmt.Fprintln(w, titleStyle.Render(v.Title)); err != nil {
			return err
		}
	}

	switch {
	case v.Loading:
		_, err := fmt.Fprintln(w, mutedStyle.Render(loadingText))
		return err
	case len(v.Matches()) == 0:
		_, err := fmt.Fprintln(w, mutedStyle.Render(emptyText))
		return err
	}

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers(v.Headers()...).
		Rows(v.Cells()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	footer := fmt.Sprintf("page %d/%d · %d records", v.CurrentPage(), v.Pages(), len(v.Matches()))
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), mutedStyle.Render(footer))
	return err
}
