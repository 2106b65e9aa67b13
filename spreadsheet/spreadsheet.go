// Package spreadsheet moves table views and form rows in and out of xlsx workbooks.
package spreadsheet

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/form"
	"github.com/Dahire100/FrontierLMS-sub005/table"
)

const maxSheetName = 31

var (
	ErrNoSheet  = errors.New("workbook does not contain any sheets")
	ErrNoHeader = errors.New("header row matches no field")

	sheetNameReplacer = strings.NewReplacer(
		"[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", "\\", "-",
	)
)

// SheetName turns a view title into a valid sheet name.
func SheetName(title string) string {
	name := core.CleanString(sheetNameReplacer.Replace(title))
	if name == "" {
		return "Sheet1"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// Export writes every matching row of the view (search applied, pagination ignored)
// as a single sheet with a bold header row. Cells go through the column formatters.
func Export(w io.Writer, view *table.View) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := SheetName(view.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	header := make([]interface{}, 0, len(view.Columns))
	for _, h := range view.Headers() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	if err = f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "styling header")
	}

	for i, rec := range view.Matches() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, 0, len(view.Columns))
		for _, col := range view.Columns {
			row = append(row, col.Cell(rec))
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	return errors.Wrap(f.Write(w), "writing workbook")
}

// Import reads the first sheet into form values, one map per non-blank row.
// Header cells are matched against field names, then labels, case-insensitively;
// unmatched columns are ignored.
func Import(r io.Reader, schema form.Schema) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return []map[string]string{}, nil
	}

	fields := matchHeader(rows[0], schema)
	if len(fields) == 0 {
		return nil, ErrNoHeader
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		vals := make(map[string]string, len(fields))
		for idx, name := range fields {
			if idx < len(row) {
				if v := core.CleanString(row[idx]); v != "" {
					vals[name] = v
				}
			}
		}
		if len(vals) == 0 {
			continue
		}
		out = append(out, vals)
	}
	return out, nil
}

// matchHeader maps a column index to a field name.
func matchHeader(header []string, schema form.Schema) map[int]string {
	fields := make(map[int]string)
	for idx, cell := range header {
		cell = core.CleanString(cell)
		if cell == "" {
			continue
		}
		for _, fld := range schema {
			if strings.EqualFold(cell, fld.Name) || (fld.Label != "" && strings.EqualFold(cell, fld.Label)) {
				fields[idx] = fld.Name
				break
			}
		}
	}
	return fields
}
