// Package table turns records into rows of display strings. It holds no business logic.
package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// RenderFunc formats one cell. row is the whole record, for cells derived from several fields.
type RenderFunc func(value interface{}, row core.Record) string

type Column struct {
	Key    string
	Label  string
	Render RenderFunc // nil means Text
}

func (c Column) Cell(row core.Record) string {
	render := c.Render
	if render == nil {
		render = Text
	}
	return render(row[c.Key], row)
}

func (c Column) Header() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// Text prints the value as is.
func Text(v interface{}, _ core.Record) string {
	return core.FormatValue(v)
}

// Money prints a number with thousands separators and two decimals: 5000 -> "5,000.00".
func Money(v interface{}, row core.Record) string {
	n, ok := core.Record{"v": v}.Float("v")
	if !ok {
		return Text(v, row)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatFloat(n, 'f', 2, 64)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String() + frac
	}
	return b.String() + frac
}

// Date prints the date part of an ISO-8601 timestamp: "2024-03-09T10:00:00Z" -> "2024-03-09".
func Date(v interface{}, row core.Record) string {
	s := Text(v, row)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, core.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(core.DateLayout)
		}
	}
	return s
}

// YesNo prints booleans as Yes/No.
func YesNo(v interface{}, row core.Record) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case nil:
		return ""
	}
	return Text(v, row)
}

// Status capitalizes a status word: "in_progress" -> "In progress".
func Status(v interface{}, row core.Record) string {
	s := strings.ReplaceAll(core.CleanString(Text(v, row), true), "_", " ")
	return core.Capitalize(s)
}

// Join renders several fields of the row separated by sep, skipping blanks.
func Join(sep string, keys ...string) RenderFunc {
	return func(_ interface{}, row core.Record) string {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := core.CleanString(row.String(k)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	}
}
